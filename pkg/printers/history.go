package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

const layoutStamp = "2006-01-02 15:04"

// History renders exchanges as a table, oldest first.
func (pp *PrettyPrint) History(exchanges ...*store.Exchange) {
	if len(exchanges) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Asked"), bold.Sprint("Outcome"), bold.Sprint("Question"), bold.Sprint("Response"))
	for _, x := range exchanges {
		tbl.AddRow(x.Asked.Local().Format(layoutStamp), outcomeLabel(x), x.Query, oneLine(x.Display))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Exchange prints a single exchange in full.
func (pp *PrettyPrint) Exchange(x *store.Exchange) {
	y := color.New(color.FgHiYellow, color.Faint)
	_, _ = y.Fprintf(pp.out(), "%s  %s\n", x.ID, x.Asked.Local().Format(layoutStamp))
	pp.Question(x.Query)
	pp.Display(x.Kind, x.Display)
	pp.NewLine()
}

func outcomeLabel(x *store.Exchange) string {
	label := x.Kind.String()
	if x.Status != 0 {
		label = fmt.Sprintf("%s (%d)", label, x.Status)
	}
	if x.Kind == query.Answered {
		return color.GreenString(label)
	}
	return color.RedString(label)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
