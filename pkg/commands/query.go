package commands

import (
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/ask/pkg/commands/options"
	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/runner/ask"
)

func addQuery(topLevel *cobra.Command) {
	io := &options.InteractiveOptions{}
	ro := &options.RenderOptions{}

	cmd := &cobra.Command{
		Use:     "query [question]",
		Aliases: []string{"q"},
		Short:   "Ask a single question, or prompt for questions in a loop.",
		Example: `
ask query What is the main rate of Corporation Tax?
ask query --json "When is the R&D tax relief deadline?"
ask query -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, history, err := connect()
			if err != nil {
				return oo.HandleError(err)
			}
			a := ask.Ask{
				Asker:       client,
				History:     history,
				Messages:    form.DefaultMessages(),
				Question:    strings.Join(args, " "),
				Interactive: io.Resolve(args),
				JSON:        oo.JSON,
				Markdown:    ro.Markdown,
				Width:       ro.Width,
				Out:         cmd.OutOrStdout(),
			}
			return oo.HandleError(a.Do(cmd.Context()))
		},
	}

	options.InteractiveArgs(cmd, io)
	options.AddRenderArgs(cmd, ro)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
