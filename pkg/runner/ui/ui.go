package ui

import (
	"context"
	"errors"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
	teaui "tableflip.dev/ask/pkg/tui/app"
)

// UI runs the full-screen terminal form.
type UI struct {
	Asker    query.Asker
	History  store.History
	Messages form.Messages
	Endpoint string
}

func (d *UI) Do(ctx context.Context) error {
	if d.Asker == nil {
		return errors.New("can not start ui, no endpoint configured")
	}
	return teaui.Run(ctx, d.Asker, d.History, teaui.Options{
		Messages: d.Messages,
		Endpoint: d.Endpoint,
	})
}
