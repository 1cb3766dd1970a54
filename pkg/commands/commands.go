package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/ask/pkg/commands/options"
	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/store"
)

// annotationLogToFile marks commands that own the terminal, so their log
// lines go to the configured log file instead of stderr.
const annotationLogToFile = "ask.tableflip.dev/log-to-file"

var (
	oo  = &base.OutputOptions{}
	eo  = &options.EndpointOptions{}
	cfg store.Config
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "ask",
		Short: base.Wrap80("Ask questions of a retrieval-augmented answer service from the terminal, a browser, or an MCP client."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = store.LoadConfig(); err != nil {
				return err
			}
			opts := logging.Options{Level: cfg.LogLevel()}
			if cmd.Annotations[annotationLogToFile] == "true" {
				opts.File = cfg.LogFile()
			}
			_, err = logging.Setup(opts)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddEndpointArgs(cmd, eo)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addQuery(topLevel)
	addServe(topLevel)
	addHistory(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
