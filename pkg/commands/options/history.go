package options

import (
	"github.com/spf13/cobra"
)

// HistoryOptions
type HistoryOptions struct {
	Follow bool
	Clear  bool
	Since  string
}

func AddHistoryArgs(cmd *cobra.Command, o *HistoryOptions) {
	cmd.Flags().BoolVarP(&o.Follow, "follow", "f", false,
		"Keep printing exchanges as they are recorded.")
	cmd.Flags().BoolVar(&o.Clear, "clear", false,
		"Delete every recorded exchange.")
	cmd.Flags().StringVar(&o.Since, "since", "",
		`Only list exchanges asked within this window, e.g. "2h", "3d" or "1w".`)
}
