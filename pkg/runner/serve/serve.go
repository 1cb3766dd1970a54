package serve

import (
	"context"
	"errors"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
	"tableflip.dev/ask/pkg/web"
)

// Serve runs the browser form until ctx is done.
type Serve struct {
	Asker    query.Asker
	History  store.History
	Messages form.Messages
	Addr     string
	Endpoint string
	Origins  []string
}

func (n *Serve) Do(ctx context.Context) error {
	if n.Asker == nil {
		return errors.New("can not serve, no endpoint configured")
	}
	srv, err := web.NewServer(n.Asker, web.Options{
		Addr:           n.Addr,
		Messages:       n.Messages,
		History:        n.History,
		Endpoint:       n.Endpoint,
		AllowedOrigins: n.Origins,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
