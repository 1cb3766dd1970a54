package commands

import (
	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

// connect builds the answer service client and history store from the config
// loaded by the root command.
func connect() (*query.Client, store.History, error) {
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, nil, err
		}
	}
	client, err := query.New(cfg.Endpoint(), query.WithLogger(logging.New("query")))
	if err != nil {
		return nil, nil, err
	}
	history, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, history, nil
}
