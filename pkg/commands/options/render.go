package options

import (
	"github.com/spf13/cobra"
)

// RenderOptions
type RenderOptions struct {
	Markdown bool
	Width    int
}

func AddRenderArgs(cmd *cobra.Command, o *RenderOptions) {
	cmd.Flags().BoolVar(&o.Markdown, "markdown", false,
		"Render answers as markdown.")
	cmd.Flags().IntVar(&o.Width, "width", 80,
		"Wrap width for rendered answers.")
}
