// Package query is the HTTP boundary to the remote question-answering API.
// A single call posts {"query": ...} to <endpoint>/api/query and settles into
// exactly one Outcome; there is no retry, timeout, or streaming.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"tableflip.dev/ask/pkg/logging"
)

// ErrNoEndpoint is returned by New when no usable endpoint is configured.
var ErrNoEndpoint = errors.New("query: endpoint must be an absolute http(s) URL")

// Asker issues one query and waits for it to settle.
type Asker interface {
	Ask(ctx context.Context, req Request) Outcome
}

// Client posts queries to a single answering endpoint.
type Client struct {
	url  string
	http *http.Client
	log  zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger replaces the "query" tagged global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New builds a client for the base endpoint, e.g. "http://localhost:3000" or
// "https://example.com/frontend". The query path is appended to it.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	u, err := url.Parse(endpoint)
	if err != nil || endpoint == "" || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrNoEndpoint, endpoint)
	}
	c := &Client{
		url:  strings.TrimRight(endpoint, "/") + Path,
		http: http.DefaultClient,
		log:  logging.New("query"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL is the full address requests are posted to.
func (c *Client) URL() string {
	return c.url
}

// Ask posts req and classifies the settlement. It never returns an error;
// failures are encoded in the Outcome.
func (c *Client) Ask(ctx context.Context, req Request) Outcome {
	body, err := json.Marshal(req)
	if err != nil {
		return c.transportFailure(fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return c.transportFailure(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("url", c.url).Int("bytes", len(body)).Msg("posting query")
	res, err := c.http.Do(httpReq)
	if err != nil {
		return c.transportFailure(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return c.transportFailure(fmt.Errorf("read response: %w", err))
	}

	var wire wireResponse
	decodeErr := json.Unmarshal(data, &wire)
	ok := res.StatusCode >= 200 && res.StatusCode < 300

	switch {
	case ok && decodeErr != nil:
		c.log.Warn().Int("status", res.StatusCode).Err(decodeErr).Msg("unreadable success body")
		return Outcome{Kind: Malformed, Status: res.StatusCode, Err: decodeErr}
	case ok && wire.Response == nil:
		err := errors.New(`response body has no "response" field`)
		c.log.Warn().Int("status", res.StatusCode).Err(err).Msg("unreadable success body")
		return Outcome{Kind: Malformed, Status: res.StatusCode, Err: err}
	case ok:
		c.log.Debug().Int("status", res.StatusCode).Msg("query answered")
		return Outcome{Kind: Answered, Text: *wire.Response, Status: res.StatusCode}
	}

	out := Outcome{Kind: ServerError, Status: res.StatusCode, Err: decodeErr}
	if decodeErr == nil && wire.Response != nil {
		out.Text = *wire.Response
	}
	c.log.Info().Int("status", res.StatusCode).Str("response", out.Text).Msg("server reported error")
	return out
}

func (c *Client) transportFailure(err error) Outcome {
	c.log.Error().Err(err).Str("cause", string(Classify(err))).Str("url", c.url).Msg("query transport failure")
	return Outcome{Kind: TransportError, Err: err}
}
