// Package mcp exposes the question form as a Model Context Protocol server.
package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

// ErrExchangeNotFound is returned when a history lookup misses.
var ErrExchangeNotFound = errors.New("exchange not found")

// Service runs one form session per question, so concurrent tool calls never
// share state.
type Service struct {
	Asker    query.Asker
	Messages form.Messages
	History  store.History
}

// AnswerDTO is a transport-friendly projection of a settled question.
type AnswerDTO struct {
	ID        string `json:"id,omitempty"`
	Question  string `json:"question"`
	Display   string `json:"display"`
	Kind      string `json:"kind"`
	Status    int    `json:"status,omitempty"`
	AskedISO  string `json:"asked"`
	ElapsedMS int64  `json:"elapsedMs"`
}

// Failed reports whether the answer is one of the error displays.
func (a AnswerDTO) Failed() bool {
	return a.Kind != query.Answered.String()
}

// NewService builds a service. A nil history records nothing.
func NewService(asker query.Asker, msgs form.Messages, history store.History) *Service {
	if history == nil {
		history = store.Discard{}
	}
	return &Service{Asker: asker, Messages: msgs, History: history}
}

// Ask submits question through a fresh form and records the exchange.
func (s *Service) Ask(ctx context.Context, question string) (AnswerDTO, error) {
	if s.Asker == nil {
		return AnswerDTO{}, errors.New("asker is not configured")
	}
	session := form.NewSession(s.Asker, s.Messages)
	res, err := session.Ask(ctx, question)
	if err != nil {
		return AnswerDTO{}, err
	}
	x := store.NewExchange(res)
	if err := s.History.Record(x); err != nil {
		log := logging.New("mcp")
		log.Warn().Err(err).Msg("record exchange")
	}
	return toDTO(x), nil
}

// Recent returns up to limit exchanges, newest first. A limit of zero or less
// returns everything.
func (s *Service) Recent(ctx context.Context, limit int) []AnswerDTO {
	all := s.History.List(ctx)
	out := make([]AnswerDTO, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, toDTO(all[i]))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ExchangeByID finds a recorded exchange.
func (s *Service) ExchangeByID(ctx context.Context, id string) (AnswerDTO, error) {
	id = strings.TrimSpace(id)
	for _, x := range s.History.List(ctx) {
		if x.ID == id {
			return toDTO(x), nil
		}
	}
	return AnswerDTO{}, ErrExchangeNotFound
}

func toDTO(x *store.Exchange) AnswerDTO {
	return AnswerDTO{
		ID:        x.ID,
		Question:  x.Query,
		Display:   x.Display,
		Kind:      x.Kind.String(),
		Status:    x.Status,
		AskedISO:  x.Asked.Format(time.RFC3339),
		ElapsedMS: x.Settled.Sub(x.Asked).Milliseconds(),
	}
}
