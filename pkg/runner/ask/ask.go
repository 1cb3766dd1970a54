package ask

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/printers"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

// Prompter reads one question from the user.
type Prompter func(label string) (string, error)

// Ask submits questions through a form session and prints what the form
// displays. With no Question and Interactive set, it prompts repeatedly until
// the user interrupts.
type Ask struct {
	Asker    query.Asker
	History  store.History
	Messages form.Messages

	Question    string
	Interactive bool
	JSON        bool
	Markdown    bool
	// Width wraps markdown answers; zero means 80.
	Width int

	Out    io.Writer
	Prompt Prompter
}

// Answer is the JSON form of a settled question.
type Answer struct {
	Query   string     `json:"query"`
	Display string     `json:"display"`
	Kind    query.Kind `json:"kind"`
	Status  int        `json:"status,omitempty"`
}

func (n *Ask) Do(ctx context.Context) error {
	if n.Asker == nil {
		return errors.New("can not ask, no endpoint configured")
	}
	if n.History == nil {
		n.History = store.Discard{}
	}
	if n.Out == nil {
		n.Out = os.Stdout
	}

	session := form.NewSession(n.Asker, n.Messages)

	if strings.TrimSpace(n.Question) != "" || !n.Interactive {
		return n.ask(ctx, session, n.Question, true)
	}

	prompt := n.Prompt
	if prompt == nil {
		prompt = promptQuestion
	}
	if !n.JSON {
		pp := printers.PrettyPrint{Out: n.Out}
		pp.Status(session.State().Messages().Prompt)
		pp.Status(session.State().Messages().Placeholder)
	}
	for {
		q, err := prompt("Question")
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := n.ask(ctx, session, q, false); err != nil && !errors.Is(err, form.ErrEmpty) {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (n *Ask) ask(ctx context.Context, session *form.Session, q string, echo bool) error {
	pp := printers.PrettyPrint{Out: n.Out, Markdown: n.Markdown, Width: n.Width}
	log := logging.New("ask")

	if !n.JSON && strings.TrimSpace(q) != "" {
		if echo {
			pp.Question(q)
		}
		pp.Status(session.State().Messages().Querying)
	}

	res, err := session.Ask(ctx, q)
	if err != nil {
		return err
	}

	x := store.NewExchange(res)
	if err := n.History.Record(x); err != nil {
		log.Warn().Err(err).Msg("record exchange")
	}
	log.Debug().
		Stringer("kind", res.Outcome.Kind).
		Int("status", res.Outcome.Status).
		Dur("elapsed", res.Settled.Sub(res.Asked)).
		Msg("exchange settled")

	if n.JSON {
		enc := json.NewEncoder(n.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(Answer{
			Query:   res.Query,
			Display: res.State.Display,
			Kind:    res.Outcome.Kind,
			Status:  res.Outcome.Status,
		})
	}
	pp.Display(res.Outcome.Kind, res.State.Display)
	pp.NewLine()
	return nil
}

func promptQuestion(label string) (string, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }}: ",
		Valid:   "{{ . | blue | bold }}: ",
		Invalid: "{{ . | blue | bold }}: ",
		Success: "{{ \"?\" | blue | bold }} ",
	}
	prompt := promptui.Prompt{
		Label:     label,
		Templates: templates,
	}
	return prompt.Run()
}
