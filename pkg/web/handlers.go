package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

type pageData struct {
	Messages form.Messages
	State    form.State
	Tone     string
}

func toneFor(kind query.Kind) string {
	if kind == query.Answered {
		return "answer"
	}
	return "error"
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := form.New(s.opts.Messages)
	s.render(w, http.StatusOK, pageData{Messages: state.Messages(), State: state, Tone: "status"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	text := r.PostFormValue("query")

	session := form.NewSession(s.asker, s.opts.Messages)
	res, err := session.Ask(r.Context(), text)
	switch {
	case errors.Is(err, form.ErrEmpty):
		state := session.State()
		s.render(w, http.StatusOK, pageData{Messages: state.Messages(), State: state, Tone: "status"})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("submit")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	questionsTotal.WithLabelValues(res.Outcome.Kind.String()).Inc()
	questionDuration.Observe(res.Settled.Sub(res.Asked).Seconds())

	x := store.NewExchange(res)
	if err := s.opts.History.Record(x); err != nil {
		s.log.Warn().Err(err).Msg("record exchange")
	}
	s.log.Info().
		Stringer("kind", res.Outcome.Kind).
		Int("status", res.Outcome.Status).
		Dur("elapsed", res.Settled.Sub(res.Asked)).
		Msg("exchange settled")

	s.render(w, http.StatusOK, pageData{
		Messages: res.State.Messages(),
		State:    res.State,
		Tone:     toneFor(res.Outcome.Kind),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":   "ok",
		"endpoint": s.opts.Endpoint,
	}); err != nil {
		s.log.Error().Err(err).Msg("encode health")
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.log.Error().Err(err).Msg("render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
