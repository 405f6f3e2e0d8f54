// Package fetch performs the widget's network requests with bounded
// exponential-backoff retry. Retry applies to network-level failures,
// HTTP 5xx, and the offline pseudo-status; 4xx responses are conclusive and
// returned to the caller for inspection.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nevent-io/go-widget/pkg/boundary"
	"github.com/nevent-io/go-widget/pkg/connection"
)

const defaultBaseDelay = 500 * time.Millisecond

// Options describe a single logical request. Body is retained as bytes so
// every retry attempt sends a fresh reader.
type Options struct {
	Method string
	Header http.Header
	Body   []byte
}

// Option customises a Fetcher before construction.
type Option func(*Fetcher)

// WithClient overrides the HTTP client.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithStatus wires the online/offline source checked before each attempt.
func WithStatus(status connection.Status) Option {
	return func(f *Fetcher) {
		if status != nil {
			f.status = status
		}
	}
}

// WithArena routes backoff delays through the instance timer arena so a
// destroyed widget abandons an in-flight retry loop.
func WithArena(arena *boundary.TimerArena) Option {
	return func(f *Fetcher) {
		if arena != nil {
			f.arena = arena
		}
	}
}

// WithBaseDelay overrides the first backoff delay. Each attempt doubles it.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.baseDelay = d
		}
	}
}

// Fetcher issues requests with retry. The zero value is unusable; construct
// with New.
type Fetcher struct {
	client    *http.Client
	status    connection.Status
	arena     *boundary.TimerArena
	baseDelay time.Duration
}

// New constructs a Fetcher with defaults: shared http.Client, always-online
// status, an untracked arena, 500ms base delay.
func New(options ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		status:    connection.NewMonitor(),
		arena:     boundary.NewTimerArena(),
		baseDelay: defaultBaseDelay,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// FetchWithRetry performs the request, retrying retryable failures up to
// maxRetries additional attempts. Offline retries consume the same budget
// as server failures; a widget destroyed mid-backoff aborts the loop.
func (f *Fetcher) FetchWithRetry(ctx context.Context, url string, opts Options, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr *boundary.NormalizedError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.baseDelay << (attempt - 1)
			if err := f.arena.Sleep(ctx, delay); err != nil {
				return nil, lastErr
			}
		}

		if !f.status.Online() {
			lastErr = boundary.NewError(boundary.CodeOffline, "browser is offline")
			continue
		}

		resp, err := f.do(ctx, url, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, boundary.Normalize(ctx.Err(), "fetch")
			}
			lastErr = boundary.Errorf(boundary.CodeNetworkError, "request %s: %v", url, err)
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			drain(resp)
			lastErr = &boundary.NormalizedError{
				Code:    boundary.CodeAPIError,
				Message: fmt.Sprintf("server error %d from %s", resp.StatusCode, url),
				Status:  resp.StatusCode,
			}
			continue
		}

		// 4xx is conclusive: hand the response back for status inspection.
		return resp, nil
	}

	if lastErr == nil {
		lastErr = boundary.NewError(boundary.CodeNetworkError, "request failed")
	}
	return nil, lastErr
}

func (f *Fetcher) do(ctx context.Context, url string, opts Options) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for key, values := range opts.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return f.client.Do(req)
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
