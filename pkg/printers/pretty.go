package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"tableflip.dev/ask/pkg/query"
)

// PrettyPrint writes questions and answers for humans.
type PrettyPrint struct {
	Out io.Writer
	// Markdown renders answered text through glamour.
	Markdown bool
	// Width is the markdown wrap width; zero means 80.
	Width int
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// Question echoes the submitted text.
func (pp *PrettyPrint) Question(q string) {
	p := color.New(color.FgHiBlue, color.Bold)
	_, _ = p.Fprint(pp.out(), "? ")
	_, _ = fmt.Fprintln(pp.out(), q)
}

// Display prints the settled display text, styled by outcome.
func (pp *PrettyPrint) Display(kind query.Kind, text string) {
	switch kind {
	case query.Answered:
		if pp.Markdown {
			if rendered, err := pp.markdown(text); err == nil {
				_, _ = fmt.Fprint(pp.out(), rendered)
				return
			}
		}
		_, _ = fmt.Fprintln(pp.out(), text)
	default:
		e := color.New(color.FgRed)
		_, _ = e.Fprintln(pp.out(), text)
	}
}

// Status prints a faint status line such as the querying message.
func (pp *PrettyPrint) Status(text string) {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprintln(pp.out(), text)
}

func (pp *PrettyPrint) markdown(text string) (string, error) {
	width := pp.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(strings.TrimSpace(text))
}
