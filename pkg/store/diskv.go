package store

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/query"
)

// Exchange is one settled question and what the form displayed for it.
type Exchange struct {
	ID      string     `json:"id"`
	Query   string     `json:"query"`
	Display string     `json:"display"`
	Kind    query.Kind `json:"kind"`
	Status  int        `json:"status,omitempty"`
	Asked   time.Time  `json:"asked"`
	Settled time.Time  `json:"settled"`
}

// NewExchange captures a settled form submission.
func NewExchange(r form.Result) *Exchange {
	return &Exchange{
		Query:   r.Query,
		Display: r.State.Display,
		Kind:    r.Outcome.Kind,
		Status:  r.Outcome.Status,
		Asked:   r.Asked,
		Settled: r.Settled,
	}
}

// History persists exchanges.
type History interface {
	Record(x *Exchange) error
	List(ctx context.Context) []*Exchange
	Clear() error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a History backed by diskv using the provided config. When
// history is disabled the returned History records nothing.
func Load(cfg Config) (History, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if !cfg.HistoryEnabled() {
		return Discard{}, nil
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*Exchange, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	x := &Exchange{}
	if err := json.Unmarshal(val, x); err != nil {
		return nil, err
	}
	x.ID = keyToPathTransform(key).FileName
	return x, nil
}

func (p *persistence) Record(x *Exchange) error {
	if x == nil {
		return nil
	}
	if x.Asked.IsZero() {
		x.Asked = time.Now()
	}
	if x.Settled.IsZero() {
		x.Settled = x.Asked
	}
	key := toKey(x)
	data, err := json.Marshal(x)
	if err != nil {
		return err
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) List(ctx context.Context) []*Exchange {
	log := logging.New("store")
	all := make([]*Exchange, 0)
	for key := range p.d.Keys(ctx.Done()) {
		x, err := p.read(key)
		if err != nil {
			log.Warn().Str("key", key).Err(err).Msg("skipping unreadable exchange")
			continue
		}
		all = append(all, x)
	}
	sortExchanges(all)
	return all
}

func (p *persistence) Clear() error {
	return p.d.EraseAll()
}

const layoutDay = "20060102"

func sortExchanges(all []*Exchange) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Asked.Equal(all[j].Asked) {
			return all[i].ID < all[j].ID
		}
		return all[i].Asked.Before(all[j].Asked)
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `day-id`, assigning an id when the exchange has none.
func toKey(x *Exchange) string {
	if x.ID == "" {
		b, _ := json.Marshal(x)
		id := md5.Sum(b)
		x.ID = fmt.Sprintf("%x", id[:8])
	}
	return fmt.Sprintf("%s-%s", x.Asked.Format(layoutDay), x.ID)
}

// Discard is a History that keeps nothing.
type Discard struct{}

func (Discard) Record(*Exchange) error           { return nil }
func (Discard) List(context.Context) []*Exchange { return nil }
func (Discard) Clear() error                     { return nil }

func (Discard) Watch(context.Context) (<-chan Event, error) {
	ch := make(chan Event)
	close(ch)
	return ch, nil
}
