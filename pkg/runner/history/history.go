package history

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/printers"
	"tableflip.dev/ask/pkg/store"
)

// History lists, follows, or clears recorded exchanges.
type History struct {
	History store.History
	Follow  bool
	Clear   bool
	JSON    bool
	// Since limits the listing to exchanges asked within the window. Zero
	// lists everything.
	Since time.Duration
	Now   func() time.Time
	Out   io.Writer
}

func (n *History) Do(ctx context.Context) error {
	if n.History == nil {
		return errors.New("can not list history, no store")
	}
	if n.Out == nil {
		n.Out = os.Stdout
	}
	pp := printers.PrettyPrint{Out: n.Out}

	if n.Clear {
		if err := n.History.Clear(); err != nil {
			return err
		}
		pp.Status("history cleared")
		return nil
	}

	all := n.History.List(ctx)
	if n.Since > 0 {
		all = n.within(all)
	}
	if n.JSON {
		if err := n.encode(all...); err != nil {
			return err
		}
	} else {
		pp.NewLine()
		pp.Title("History")
		pp.History(all...)
	}

	if !n.Follow {
		return nil
	}
	return n.follow(ctx, all, &pp)
}

// follow prints exchanges recorded after seen until ctx is done.
func (n *History) follow(ctx context.Context, seen []*store.Exchange, pp *printers.PrettyPrint) error {
	log := logging.New("history")
	known := make(map[string]struct{}, len(seen))
	for _, x := range seen {
		known[x.ID] = struct{}{}
	}

	events, err := n.History.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			log.Debug().Str("day", ev.Day).Int("type", int(ev.Type)).Msg("history changed")
			for _, x := range n.History.List(ctx) {
				if _, ok := known[x.ID]; ok {
					continue
				}
				known[x.ID] = struct{}{}
				if n.JSON {
					if err := n.encode(x); err != nil {
						return err
					}
					continue
				}
				pp.Exchange(x)
			}
		}
	}
}

func (n *History) within(all []*store.Exchange) []*store.Exchange {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	cutoff := now().Add(-n.Since)
	kept := all[:0:0]
	for _, x := range all {
		if !x.Asked.Before(cutoff) {
			kept = append(kept, x)
		}
	}
	return kept
}

func (n *History) encode(exchanges ...*store.Exchange) error {
	enc := json.NewEncoder(n.Out)
	for _, x := range exchanges {
		if err := enc.Encode(x); err != nil {
			return err
		}
	}
	return nil
}
