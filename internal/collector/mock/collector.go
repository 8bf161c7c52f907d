// Package mock provides collector.Client doubles for testing.
package mock

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector"
)

// Client satisfies collector.Client for testing. Calls counts invocations.
type Client struct {
	SourceName string
	FetchFunc  func(ctx context.Context, siren string) (json.RawMessage, error)
	calls      atomic.Int64
}

func (c *Client) Source() string { return c.SourceName }

func (c *Client) Fetch(ctx context.Context, siren string) (json.RawMessage, error) {
	c.calls.Add(1)
	if c.FetchFunc != nil {
		return c.FetchFunc(ctx, siren)
	}
	return json.RawMessage(`{}`), nil
}

// Calls returns how many times Fetch was invoked.
func (c *Client) Calls() int64 { return c.calls.Load() }

// NewStatic returns a Client that always serves the given payload.
func NewStatic(source string, payload json.RawMessage) *Client {
	return &Client{
		SourceName: source,
		FetchFunc: func(_ context.Context, _ string) (json.RawMessage, error) {
			return payload, nil
		},
	}
}

// NewFailing returns a Client that always returns err.
func NewFailing(source string, err error) *Client {
	return &Client{
		SourceName: source,
		FetchFunc: func(_ context.Context, _ string) (json.RawMessage, error) {
			return nil, err
		},
	}
}

// NewTimeout returns a Client that blocks until its context is cancelled.
func NewTimeout(source string) *Client {
	return &Client{
		SourceName: source,
		FetchFunc: func(ctx context.Context, _ string) (json.RawMessage, error) {
			<-ctx.Done()
			return nil, collector.ClassifyError(ctx.Err())
		},
	}
}

// NewsClient satisfies collector.NewsClient for testing.
type NewsClient struct {
	SourceName string
	FetchFunc  func(ctx context.Context, name string) (json.RawMessage, error)
	calls      atomic.Int64
}

func (c *NewsClient) Source() string { return c.SourceName }

func (c *NewsClient) FetchByName(ctx context.Context, name string) (json.RawMessage, error) {
	c.calls.Add(1)
	if c.FetchFunc != nil {
		return c.FetchFunc(ctx, name)
	}
	return json.RawMessage(`[]`), nil
}

// Calls returns how many times FetchByName was invoked.
func (c *NewsClient) Calls() int64 { return c.calls.Load() }

// NewStaticNews returns a NewsClient that always serves the given payload.
func NewStaticNews(payload json.RawMessage) *NewsClient {
	return &NewsClient{
		SourceName: "news",
		FetchFunc: func(_ context.Context, _ string) (json.RawMessage, error) {
			return payload, nil
		},
	}
}

var (
	_ collector.Client     = (*Client)(nil)
	_ collector.NewsClient = (*NewsClient)(nil)
)
