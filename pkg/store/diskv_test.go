package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/query"
)

func TestRecordAndListSortedByAsked(t *testing.T) {
	h, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	day1 := time.Date(2026, time.October, 18, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	second := &Exchange{Query: "later", Display: "Error: Bad query", Kind: query.ServerError, Status: 400, Asked: day2}
	first := &Exchange{Query: "earlier", Display: "Answer A", Kind: query.Answered, Status: 200, Asked: day1}
	for _, x := range []*Exchange{second, first} {
		if err := h.Record(x); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got := h.List(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(got))
	}
	if got[0].Query != "earlier" || got[1].Query != "later" {
		t.Fatalf("unexpected order: %q, %q", got[0].Query, got[1].Query)
	}
	if got[1].Kind != query.ServerError || got[1].Status != 400 || got[1].Display != "Error: Bad query" {
		t.Fatalf("fields not preserved: %+v", got[1])
	}
	if got[0].ID == "" || got[0].ID != first.ID {
		t.Fatalf("expected id %q to round trip, got %q", first.ID, got[0].ID)
	}
	if !got[0].Settled.Equal(day1) {
		t.Fatalf("settled should default to asked, got %v", got[0].Settled)
	}
}

func TestListSkipsUnreadableExchanges(t *testing.T) {
	var logs bytes.Buffer
	if _, err := logging.Setup(logging.Options{Output: &logs}); err != nil {
		t.Fatalf("logging: %v", err)
	}
	t.Cleanup(func() { _, _ = logging.Setup(logging.Options{}) })

	dir := t.TempDir()
	h, err := Load(testConfig{path: dir})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	asked := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	if err := h.Record(&Exchange{Query: "good", Display: "ok", Asked: asked}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "20261019", "corrupt"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt exchange: %v", err)
	}

	got := h.List(context.Background())
	if len(got) != 1 || got[0].Query != "good" {
		t.Fatalf("expected only the readable exchange, got %+v", got)
	}
	if !strings.Contains(logs.String(), "skipping unreadable exchange") || !strings.Contains(logs.String(), `"tag":"store"`) {
		t.Fatalf("expected a store warning in the log, got %q", logs.String())
	}
}

func TestClearRemovesHistory(t *testing.T) {
	h, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.Record(&Exchange{Query: "q", Kind: query.TransportError}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := h.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := h.List(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
}

func TestNewExchangeFromResult(t *testing.T) {
	asked := time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)
	pending, _, _ := form.New(form.Messages{}).ChangeInput("q").Submit()
	res := form.Result{
		Query:   "q",
		State:   pending.Settle(query.Outcome{Kind: query.TransportError, Err: errors.New("down")}),
		Outcome: query.Outcome{Kind: query.TransportError, Err: errors.New("down")},
		Asked:   asked,
		Settled: asked.Add(time.Second),
	}
	x := NewExchange(res)
	if x.Query != "q" || x.Kind != query.TransportError || x.Display != form.DefaultMessages().Network {
		t.Fatalf("unexpected exchange %+v", x)
	}
	if !x.Settled.After(x.Asked) {
		t.Fatalf("settled should follow asked: %+v", x)
	}
}

func TestDisabledHistoryRecordsNothing(t *testing.T) {
	h, err := Load(testConfig{path: t.TempDir(), disabled: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.Record(&Exchange{Query: "q"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := h.List(context.Background()); len(got) != 0 {
		t.Fatalf("discard history listed %d", len(got))
	}
}

func TestKeyTransformsRoundTrip(t *testing.T) {
	x := &Exchange{ID: "abc123", Asked: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)}
	key := toKey(x)
	if key != "20260102-abc123" {
		t.Fatalf("key = %q", key)
	}
	pk := keyToPathTransform(key)
	if len(pk.Path) != 1 || pk.Path[0] != "20260102" || pk.FileName != "abc123" {
		t.Fatalf("path key = %+v", pk)
	}
	if back := pathToKeyTransform(pk); back != key {
		t.Fatalf("inverse = %q", back)
	}
}
