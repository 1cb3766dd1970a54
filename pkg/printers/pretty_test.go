package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

func init() {
	color.NoColor = true
}

func TestDisplayPlainAnswer(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Question("What is the main rate?")
	pp.Display(query.Answered, "25%")

	got := buf.String()
	if !strings.Contains(got, "? What is the main rate?") || !strings.Contains(got, "25%\n") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestDisplayMarkdownAnswer(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Markdown: true, Width: 40}
	text := "The small profits rate applies to companies with profits of 50,000 pounds or less in the accounting period."
	pp.Display(query.Answered, text)

	got := buf.String()
	if !strings.Contains(got, "small profits rate") {
		t.Fatalf("answer text missing:\n%s", got)
	}
	if lines := strings.Count(strings.TrimSpace(got), "\n"); lines < 2 {
		t.Fatalf("expected answer wrapped at 40 columns, got:\n%s", got)
	}
}

func TestDisplayErrorIsNotMarkdown(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Markdown: true}
	pp.Display(query.ServerError, "Error: **Bad** query")
	if !strings.Contains(buf.String(), "Error: **Bad** query") {
		t.Fatalf("error text should print verbatim: %q", buf.String())
	}
}

func TestHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	asked := time.Date(2026, time.October, 19, 9, 30, 0, 0, time.Local)
	pp.History(
		&store.Exchange{ID: "a", Query: "first", Display: "Answer\nA", Kind: query.Answered, Status: 200, Asked: asked},
		&store.Exchange{ID: "b", Query: "second", Display: "Network Error", Kind: query.TransportError, Asked: asked},
	)
	got := buf.String()
	for _, want := range []string{"Asked", "Question", "2026-10-19 09:30", "answered (200)", "transport-error", "Answer A"} {
		if !strings.Contains(got, want) {
			t.Fatalf("table missing %q:\n%s", want, got)
		}
	}
}

func TestHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.History()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none marker, got %q", buf.String())
	}
}
