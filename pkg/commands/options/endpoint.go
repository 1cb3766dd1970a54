package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EndpointOptions are the persistent flags every subcommand shares. They are
// bound to viper keys so they override .ask.yaml and ASK_* variables.
type EndpointOptions struct {
	Endpoint string
	LogLevel string
}

func AddEndpointArgs(cmd *cobra.Command, o *EndpointOptions) {
	cmd.PersistentFlags().StringVar(&o.Endpoint, "endpoint", "",
		"Base URL of the answer service, e.g. http://localhost:3000.")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error.")

	_ = viper.BindPFlag("endpoint", cmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
}
