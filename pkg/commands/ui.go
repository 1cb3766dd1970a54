package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
ask ui
ask ui --endpoint http://localhost:3000
`,
		Annotations: map[string]string{annotationLogToFile: "true"},
		ValidArgs:   []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, history, err := connect()
			if err != nil {
				return err
			}
			i := ui.UI{
				Asker:    client,
				History:  history,
				Messages: form.DefaultMessages(),
				Endpoint: cfg.Endpoint(),
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
