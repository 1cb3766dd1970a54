package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
)

type fakeAsker struct {
	mu       sync.Mutex
	outcome  query.Outcome
	requests []query.Request
}

func (f *fakeAsker) Ask(_ context.Context, req query.Request) query.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.outcome
}

type memoryHistory struct {
	store.Discard
	mu        sync.Mutex
	exchanges []*store.Exchange
}

func (m *memoryHistory) Record(x *store.Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	x.ID = fmt.Sprintf("x%d", len(m.exchanges)+1)
	m.exchanges = append(m.exchanges, x)
	return nil
}

func (m *memoryHistory) List(context.Context) []*store.Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*store.Exchange(nil), m.exchanges...)
}

type failingHistory struct {
	store.Discard
}

func (failingHistory) Record(*store.Exchange) error {
	return errors.New("disk full")
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestServiceAskRecordsExchange(t *testing.T) {
	asker := &fakeAsker{outcome: query.Outcome{Kind: query.Answered, Text: "25%", Status: 200}}
	history := &memoryHistory{}
	svc := NewService(asker, form.Messages{}, history)

	answer, err := svc.Ask(context.Background(), "What is the main rate?")
	require.NoError(t, err)
	assert.Equal(t, "25%", answer.Display)
	assert.Equal(t, "answered", answer.Kind)
	assert.Equal(t, 200, answer.Status)
	assert.False(t, answer.Failed())
	assert.Equal(t, "x1", answer.ID)

	require.Len(t, asker.requests, 1)
	assert.Equal(t, "What is the main rate?", asker.requests[0].Query)

	got, err := svc.ExchangeByID(context.Background(), "x1")
	require.NoError(t, err)
	assert.Equal(t, "What is the main rate?", got.Question)

	_, err = svc.ExchangeByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrExchangeNotFound)
}

func TestServiceAskBlankQuestion(t *testing.T) {
	asker := &fakeAsker{}
	svc := NewService(asker, form.Messages{}, nil)

	_, err := svc.Ask(context.Background(), "  ")
	assert.ErrorIs(t, err, form.ErrEmpty)
	assert.Empty(t, asker.requests)
}

func TestServiceAskKeepsAnswerWhenRecordFails(t *testing.T) {
	asker := &fakeAsker{outcome: query.Outcome{Kind: query.Answered, Text: "25%", Status: 200}}
	svc := NewService(asker, form.Messages{}, failingHistory{})

	answer, err := svc.Ask(context.Background(), "What is the main rate?")
	require.NoError(t, err)
	assert.Equal(t, "25%", answer.Display)
	assert.Len(t, asker.requests, 1)

	res, err := askQuestionHandler(svc)(context.Background(), callTool("ask_question", map[string]any{"question": "again"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "25%", resultText(t, res))
}

func TestServiceRecentNewestFirst(t *testing.T) {
	history := &memoryHistory{}
	svc := NewService(&fakeAsker{outcome: query.Outcome{Kind: query.Answered, Text: "ok"}}, form.Messages{}, history)
	for _, q := range []string{"one", "two", "three"} {
		_, err := svc.Ask(context.Background(), q)
		require.NoError(t, err)
	}

	recent := svc.Recent(context.Background(), 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "three", recent[0].Question)
	assert.Equal(t, "two", recent[1].Question)
	assert.Len(t, svc.Recent(context.Background(), 0), 3)
}

func TestAskQuestionHandler(t *testing.T) {
	msgs := form.DefaultMessages()
	tests := map[string]struct {
		outcome query.Outcome
		args    map[string]any
		isError bool
		want    string
	}{
		"answered": {
			outcome: query.Outcome{Kind: query.Answered, Text: "The main rate is 25%.", Status: 200},
			args:    map[string]any{"question": "What is the main rate?"},
			want:    "The main rate is 25%.",
		},
		"server error": {
			outcome: query.Outcome{Kind: query.ServerError, Text: "Bad query", Status: 400},
			args:    map[string]any{"question": "?"},
			isError: true,
			want:    "Error: Bad query",
		},
		"network": {
			outcome: query.Outcome{Kind: query.TransportError},
			args:    map[string]any{"question": "hello"},
			isError: true,
			want:    msgs.Network,
		},
		"blank": {
			args:    map[string]any{"question": ""},
			isError: true,
			want:    "question is required",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			svc := NewService(&fakeAsker{outcome: tc.outcome}, form.Messages{}, nil)
			res, err := askQuestionHandler(svc)(context.Background(), callTool("ask_question", tc.args))
			require.NoError(t, err)
			assert.Equal(t, tc.isError, res.IsError)
			assert.Equal(t, tc.want, resultText(t, res))
		})
	}
}

func TestListHistoryHandler(t *testing.T) {
	history := &memoryHistory{}
	svc := NewService(&fakeAsker{outcome: query.Outcome{Kind: query.Answered, Text: "ok"}}, form.Messages{}, history)
	_, err := svc.Ask(context.Background(), "first")
	require.NoError(t, err)

	res, err := listHistoryHandler(svc)(context.Background(), callTool("list_history", map[string]any{"limit": 5}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"question":"first"`)

	res, err = listHistoryHandler(svc)(context.Background(), callTool("list_history", map[string]any{"limit": -1}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRunnerRequiresAsker(t *testing.T) {
	_, err := Runner{}.NewServer()
	assert.Error(t, err)

	err = Runner{Asker: &fakeAsker{}, Transport: "carrier-pigeon"}.Do(context.Background())
	assert.ErrorContains(t, err, "unknown MCP transport")
}

func TestRunnerServesHTTPUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- Runner{
			Asker:           &fakeAsker{},
			Transport:       TransportHTTP,
			HTTPListenAddr:  "127.0.0.1:0",
			OnHTTPListening: func(a net.Addr) { addrCh <- a },
		}.Do(ctx)
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not start listening")
	}

	resp, err := http.Get("http://" + addr.String() + "/nope")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}
