// Package events defines the messages exchanged between Bubble Tea components.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/query"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// SubmitMsg is emitted when a form issues its request.
type SubmitMsg struct {
	Component ComponentID
	Query     string
}

// Describe renders the submission in a human-friendly format for logs.
func (m SubmitMsg) Describe() string {
	return fmt.Sprintf("submit query:%q", m.Query)
}

// SettleMsg carries the outcome of the request issued by Component.
type SettleMsg struct {
	Component ComponentID
	Outcome   query.Outcome
}

// Describe renders the settlement in a human-friendly format for logs.
func (m SettleMsg) Describe() string {
	return fmt.Sprintf("settle kind:%s status:%d", m.Outcome.Kind, m.Outcome.Status)
}

// ExchangeMsg is emitted after a form has applied a settlement.
type ExchangeMsg struct {
	Component ComponentID
	Result    form.Result
}

// Describe renders the exchange in a human-friendly format for logs.
func (m ExchangeMsg) Describe() string {
	return fmt.Sprintf("exchange kind:%s display:%q", m.Result.Outcome.Kind, m.Result.State.Display)
}

// SubmitCmd emits a SubmitMsg.
func SubmitCmd(component ComponentID, q string) tea.Cmd {
	return func() tea.Msg {
		return SubmitMsg{Component: component, Query: q}
	}
}

// ExchangeCmd emits an ExchangeMsg.
func ExchangeCmd(component ComponentID, r form.Result) tea.Cmd {
	return func() tea.Msg {
		return ExchangeMsg{Component: component, Result: r}
	}
}
