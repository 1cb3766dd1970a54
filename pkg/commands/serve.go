package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	addr := "127.0.0.1:8080"
	var origins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the question form to a browser.",
		Example: `
ask serve
ask serve --addr :9090
ask serve --cors-origin http://localhost:3000
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, history, err := connect()
			if err != nil {
				return err
			}
			s := serve.Serve{
				Asker:    client,
				History:  history,
				Messages: form.DefaultMessages(),
				Addr:     addr,
				Endpoint: cfg.Endpoint(),
				Origins:  origins,
			}
			return s.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addr, "Listen address for the page server.")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Origins allowed to submit the form cross-site. Repeatable.")

	topLevel.AddCommand(cmd)
}
