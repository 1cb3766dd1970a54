package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"tableflip.dev/ask/pkg/query"
)

var (
	// ErrPending is returned when a submit arrives while a request is outstanding.
	ErrPending = errors.New("form: a query is already pending")
	// ErrEmpty is returned when the input is blank; the form is unchanged.
	ErrEmpty = errors.New("form: query is empty")
)

// Result describes one settled submission.
type Result struct {
	Query   string
	State   State
	Outcome query.Outcome
	Asked   time.Time
	Settled time.Time
}

// Session drives a form synchronously against an Asker.
type Session struct {
	asker query.Asker
	now   func() time.Time

	mu    sync.Mutex
	state State
}

// NewSession returns an Idle session.
func NewSession(asker query.Asker, msgs Messages) *Session {
	return &Session{asker: asker, now: time.Now, state: New(msgs)}
}

// State returns a snapshot of the current form state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetInput applies an input change.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.state = s.state.ChangeInput(text)
	s.mu.Unlock()
}

// Submit issues the current input and blocks until the request settles.
// Blank input yields ErrEmpty and a submit while pending yields ErrPending;
// in both cases no request is made.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	s.mu.Lock()
	next, req, ok := s.state.Submit()
	if !ok {
		pending := s.state.Pending()
		s.mu.Unlock()
		if pending {
			return Result{}, ErrPending
		}
		return Result{}, ErrEmpty
	}
	s.state = next
	s.mu.Unlock()

	asked := s.now()
	outcome := s.asker.Ask(ctx, req)

	s.mu.Lock()
	s.state = s.state.Settle(outcome)
	settled := s.state
	s.mu.Unlock()

	return Result{
		Query:   req.Query,
		State:   settled,
		Outcome: outcome,
		Asked:   asked,
		Settled: s.now(),
	}, nil
}

// Ask sets the input and submits it.
func (s *Session) Ask(ctx context.Context, text string) (Result, error) {
	s.SetInput(text)
	return s.Submit(ctx)
}
