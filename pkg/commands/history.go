package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/ask/pkg/commands/options"
	"tableflip.dev/ask/pkg/runner/history"
	"tableflip.dev/ask/pkg/store"
	"tableflip.dev/ask/pkg/timeutil"
)

func addHistory(topLevel *cobra.Command) {
	ho := &options.HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the questions asked so far.",
		Example: `
ask history
ask history --json
ask history --follow
ask history --since 1d
ask history --clear
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			since, _, err := timeutil.ParseWindow(ho.Since)
			if err != nil {
				return oo.HandleError(err)
			}
			p, err := store.Load(cfg)
			if err != nil {
				return oo.HandleError(err)
			}
			h := history.History{
				History: p,
				Follow:  ho.Follow,
				Clear:   ho.Clear,
				JSON:    oo.JSON,
				Since:   since,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(h.Do(cmd.Context()))
		},
	}

	options.AddHistoryArgs(cmd, ho)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
