// Package form holds the query form state machine. State values are
// immutable; every event returns the next State, so the same transitions
// drive the terminal UI, the one-shot CLI, the web page, and the MCP tool.
package form

import (
	"strings"

	"tableflip.dev/ask/pkg/query"
)

// Phase is Idle or Pending. While Pending exactly one request is outstanding.
type Phase int

const (
	Idle Phase = iota
	Pending
)

func (p Phase) String() string {
	if p == Pending {
		return "pending"
	}
	return "idle"
}

// Messages are the fixed strings the form displays.
type Messages struct {
	Title          string
	Subtitle       string
	ResponseLabel  string
	Prompt         string
	Querying       string
	ServerFallback string
	Network        string
	Malformed      string
	Placeholder    string
	SubmitLabel    string
	PendingLabel   string
}

// DefaultMessages returns the strings of the HMRC Corporation Tax assistant.
func DefaultMessages() Messages {
	return Messages{
		Title:          "HMRC RAG Assistant",
		Subtitle:       "Ask any question about the provided Corporation Tax documents.",
		ResponseLabel:  "AI Response:",
		Prompt:         `Ask a question about HMRC Corporation Tax (e.g., "What is the R&D tax relief deadline?").`,
		Querying:       "Querying HMRC knowledge base...",
		ServerFallback: "Failed to get a response from the server.",
		Network:        "Network Error: Could not connect to the local API.",
		Malformed:      "Error: The server returned a response that could not be read.",
		Placeholder:    "E.g., What is the main rate of Corporation Tax?",
		SubmitLabel:    "Ask",
		PendingLabel:   "Sending...",
	}
}

func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&m.Title, d.Title)
	fill(&m.Subtitle, d.Subtitle)
	fill(&m.ResponseLabel, d.ResponseLabel)
	fill(&m.Prompt, d.Prompt)
	fill(&m.Querying, d.Querying)
	fill(&m.ServerFallback, d.ServerFallback)
	fill(&m.Network, d.Network)
	fill(&m.Malformed, d.Malformed)
	fill(&m.Placeholder, d.Placeholder)
	fill(&m.SubmitLabel, d.SubmitLabel)
	fill(&m.PendingLabel, d.PendingLabel)
	return m
}

// Display maps a settled outcome to the text shown to the user.
func (m Messages) Display(o query.Outcome) string {
	switch o.Kind {
	case query.Answered:
		return o.Text
	case query.ServerError:
		if o.Text != "" {
			return "Error: " + o.Text
		}
		return "Error: " + m.ServerFallback
	case query.Malformed:
		return m.Malformed
	default:
		return m.Network
	}
}

// State is the complete form state.
type State struct {
	Input   string
	Display string
	Phase   Phase

	msgs Messages
}

// New returns an Idle form showing the prompt. Empty message fields fall
// back to DefaultMessages.
func New(msgs Messages) State {
	msgs = msgs.withDefaults()
	return State{Display: msgs.Prompt, msgs: msgs}
}

// Messages returns the strings this form was built with.
func (s State) Messages() Messages {
	return s.msgs.withDefaults()
}

// Pending reports whether a request is outstanding.
func (s State) Pending() bool {
	return s.Phase == Pending
}

// Disabled mirrors Pending for the input field and submit control.
func (s State) Disabled() bool {
	return s.Pending()
}

// SubmitLabel is the text for the submit control.
func (s State) SubmitLabel() string {
	m := s.Messages()
	if s.Pending() {
		return m.PendingLabel
	}
	return m.SubmitLabel
}

// CanSubmit reports whether Submit would issue a request.
func (s State) CanSubmit() bool {
	return !s.Pending() && strings.TrimSpace(s.Input) != ""
}

// ChangeInput replaces the input text. The field is disabled while Pending,
// so the change is dropped then.
func (s State) ChangeInput(text string) State {
	if s.Pending() {
		return s
	}
	s.Input = text
	return s
}

// Submit moves an Idle form with non-blank input to Pending and returns the
// request to issue. Otherwise it returns s unchanged and false.
func (s State) Submit() (State, query.Request, bool) {
	if !s.CanSubmit() {
		return s, query.Request{}, false
	}
	req := query.Request{Query: s.Input}
	s.Phase = Pending
	s.Display = s.Messages().Querying
	return s, req, true
}

// Settle applies the outcome of the outstanding request: the form returns to
// Idle with an empty input whatever the outcome. Settling an Idle form is a
// no-op.
func (s State) Settle(o query.Outcome) State {
	if !s.Pending() {
		return s
	}
	s.Phase = Idle
	s.Input = ""
	s.Display = s.Messages().Display(o)
	return s
}
