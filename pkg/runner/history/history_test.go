package history

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

func init() {
	color.NoColor = true
}

type memoryHistory struct {
	mu        sync.Mutex
	exchanges []*store.Exchange
	cleared   bool
	events    chan store.Event
}

func (m *memoryHistory) Record(x *store.Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = append(m.exchanges, x)
	return nil
}

func (m *memoryHistory) List(context.Context) []*store.Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*store.Exchange(nil), m.exchanges...)
}

func (m *memoryHistory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = nil
	m.cleared = true
	return nil
}

func (m *memoryHistory) Watch(context.Context) (<-chan store.Event, error) {
	return m.events, nil
}

// syncBuffer guards a bytes.Buffer written by the follow loop.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func exchange(id, q, display string) *store.Exchange {
	return &store.Exchange{
		ID:      id,
		Query:   q,
		Display: display,
		Kind:    query.Answered,
		Status:  200,
		Asked:   time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC),
	}
}

func TestListTable(t *testing.T) {
	h := &memoryHistory{exchanges: []*store.Exchange{exchange("a", "What is the main rate?", "25%")}}
	var out bytes.Buffer
	if err := (&History{History: h, Out: &out}).Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	for _, want := range []string{"History", "What is the main rate?", "25%", "answered (200)"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestListJSON(t *testing.T) {
	h := &memoryHistory{exchanges: []*store.Exchange{exchange("a", "q1", "one"), exchange("b", "q2", "two")}}
	var out bytes.Buffer
	if err := (&History{History: h, JSON: true, Out: &out}).Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	dec := json.NewDecoder(&out)
	var ids []string
	for dec.More() {
		var x store.Exchange
		if err := dec.Decode(&x); err != nil {
			t.Fatalf("decode: %v", err)
		}
		ids = append(ids, x.ID)
	}
	if strings.Join(ids, ",") != "a,b" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestListSince(t *testing.T) {
	old := exchange("a", "last year", "old")
	old.Asked = old.Asked.AddDate(-1, 0, 0)
	h := &memoryHistory{exchanges: []*store.Exchange{old, exchange("b", "this morning", "new")}}
	var out bytes.Buffer
	n := History{
		History: h,
		Since:   24 * time.Hour,
		Now:     func() time.Time { return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC) },
		Out:     &out,
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if strings.Contains(out.String(), "last year") || !strings.Contains(out.String(), "this morning") {
		t.Fatalf("unexpected listing:\n%s", out.String())
	}
}

func TestClear(t *testing.T) {
	h := &memoryHistory{exchanges: []*store.Exchange{exchange("a", "q", "d")}}
	var out bytes.Buffer
	if err := (&History{History: h, Clear: true, Out: &out}).Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !h.cleared || len(h.List(context.Background())) != 0 {
		t.Fatalf("history not cleared")
	}
}

func TestFollowPrintsNewExchanges(t *testing.T) {
	h := &memoryHistory{
		exchanges: []*store.Exchange{exchange("a", "old question", "old")},
		events:    make(chan store.Event),
	}
	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- (&History{History: h, Follow: true, Out: out}).Do(ctx) }()

	_ = h.Record(exchange("b", "new question", "fresh answer"))
	h.events <- store.Event{Type: store.EventExchangeRecorded, Day: "20261019"}

	deadline := time.After(2 * time.Second)
	for !strings.Contains(out.String(), "fresh answer") {
		select {
		case <-deadline:
			t.Fatalf("new exchange not printed:\n%s", out.String())
		case <-time.After(10 * time.Millisecond):
		}
	}
	if strings.Count(out.String(), "old question") != 1 {
		t.Fatalf("existing exchange should only be listed once:\n%s", out.String())
	}

	close(h.events)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("follow did not stop when the watch closed")
	}
}
