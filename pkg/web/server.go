// Package web serves the question form as a server-rendered page.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

//go:embed templates/*.html
var templates embed.FS

// Options configure the page server.
type Options struct {
	// Addr is the listen address, e.g. "127.0.0.1:8080".
	Addr     string
	Messages form.Messages
	// History records every settled exchange. Nil records nothing.
	History store.History
	// Endpoint is reported by the health check.
	Endpoint string
	// AllowedOrigins enables CORS for the listed origins. Empty disables it.
	AllowedOrigins []string
}

// Server renders a fresh form for every request, so no state is shared
// between browsers.
type Server struct {
	router *chi.Mux
	asker  query.Asker
	opts   Options
	page   *template.Template
	log    zerolog.Logger

	server *http.Server
}

// NewServer builds the router and parses the page template.
func NewServer(asker query.Asker, opts Options) (*Server, error) {
	if asker == nil {
		return nil, errors.New("web: asker is required")
	}
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:8080"
	}
	if opts.History == nil {
		opts.History = store.Discard{}
	}
	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		asker:  asker,
		opts:   opts,
		page:   page,
		log:    logging.New("http"),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics)
	if len(opts.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleSubmit)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on Options.Addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", l.Addr().String()).Msgf("serving on http://%s", l.Addr())
		errCh <- s.server.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("shutdown")
		_ = s.server.Close()
		return err
	}
	return nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
