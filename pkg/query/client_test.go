package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithHTTPClient(srv.Client()), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

func TestNewRejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "   ", "/api", "localhost:3000", "ftp://example.com"} {
		if _, err := New(endpoint); !errors.Is(err, ErrNoEndpoint) {
			t.Errorf("New(%q) err = %v, want ErrNoEndpoint", endpoint, err)
		}
	}
}

func TestURLAppendsQueryPath(t *testing.T) {
	tests := map[string]string{
		"http://localhost:3000":           "http://localhost:3000/api/query",
		"http://localhost:3000/":          "http://localhost:3000/api/query",
		"https://example.com/frontend":    "https://example.com/frontend/api/query",
		" https://example.com/frontend/ ": "https://example.com/frontend/api/query",
	}
	for in, want := range tests {
		c, err := New(in)
		if err != nil {
			t.Fatalf("New(%q): %v", in, err)
		}
		if got := c.URL(); got != want {
			t.Errorf("URL for %q = %q, want %q", in, got, want)
		}
	}
}

func TestAskSendsJSONPost(t *testing.T) {
	var (
		method, contentType, path string
		got                       Request
	)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_ = json.NewEncoder(w).Encode(Response{Response: "ok"})
	})

	out := c.Ask(context.Background(), Request{Query: "  What is the main rate?  "})
	if out.Kind != Answered || out.Text != "ok" {
		t.Errorf("outcome = %+v, want answered ok", out)
	}

	if method != http.MethodPost {
		t.Errorf("method = %q, want POST", method)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}
	if path != Path {
		t.Errorf("path = %q, want %q", path, Path)
	}
	if got.Query != "  What is the main rate?  " {
		t.Errorf("query = %q; input must be sent untrimmed", got.Query)
	}
}

func TestAskOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Outcome
	}{
		{
			name:   "answered",
			status: http.StatusOK,
			body:   `{"response":"Answer A"}`,
			want:   Outcome{Kind: Answered, Text: "Answer A", Status: 200},
		},
		{
			name:   "answered empty text",
			status: http.StatusOK,
			body:   `{"response":""}`,
			want:   Outcome{Kind: Answered, Text: "", Status: 200},
		},
		{
			name:   "server error with text",
			status: http.StatusBadRequest,
			body:   `{"response":"Bad query"}`,
			want:   Outcome{Kind: ServerError, Text: "Bad query", Status: 400},
		},
		{
			name:   "server error without field",
			status: http.StatusInternalServerError,
			body:   `{}`,
			want:   Outcome{Kind: ServerError, Status: 500},
		},
		{
			name:   "server error using error field",
			status: http.StatusInternalServerError,
			body:   `{"error":"GOOGLE_API_KEY not configured."}`,
			want:   Outcome{Kind: ServerError, Status: 500},
		},
		{
			name:   "server error html body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			want:   Outcome{Kind: ServerError, Status: 502},
		},
		{
			name:   "success without field",
			status: http.StatusOK,
			body:   `{"answer":"nope"}`,
			want:   Outcome{Kind: Malformed, Status: 200},
		},
		{
			name:   "success not json",
			status: http.StatusOK,
			body:   `plain text`,
			want:   Outcome{Kind: Malformed, Status: 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			})
			got := c.Ask(context.Background(), Request{Query: "q"})
			if got.Kind != tt.want.Kind || got.Text != tt.want.Text || got.Status != tt.want.Status {
				t.Fatalf("outcome = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAskTransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	c, err := New("http://"+addr, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got := c.Ask(context.Background(), Request{Query: "q"})
	if got.Kind != TransportError {
		t.Fatalf("kind = %v, want transport-error", got.Kind)
	}
	if got.Err == nil || got.Status != 0 {
		t.Fatalf("unexpected outcome %+v", got)
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range []Kind{Answered, ServerError, TransportError, Malformed} {
		b, _ := k.MarshalText()
		var back Kind
		if err := back.UnmarshalText(b); err != nil || back != k {
			t.Fatalf("round trip %v: got %v err %v", k, back, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("bogus")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Cause
	}{
		{nil, ""},
		{&net.DNSError{Err: "no such host", Name: "example.invalid"}, CauseDNS},
		{errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), CauseRefused},
		{errors.New("context deadline exceeded"), CauseTimeout},
		{errors.New("x509: certificate signed by unknown authority"), CauseTLS},
		{errors.New("boom"), CauseOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
