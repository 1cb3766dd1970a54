package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Keep prompting for questions until interrupted.`)
}

// Resolve reports whether to prompt. Without arguments a terminal on stdin
// implies interactive mode.
func (o *InteractiveOptions) Resolve(args []string) bool {
	if o.Interactive {
		return true
	}
	if len(args) > 0 {
		return false
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
