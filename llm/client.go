// Package llm implements the tool-routing and response-rendering pipeline:
// a retrying completion client over interchangeable backends, the tool
// router, the JQL translator with its persistent few-shot example store,
// and the streaming renderer.
package llm

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/shahidain/mcp-server/profile"
)

const (
	maxRetries     = 3
	retryDelay     = 1000 * time.Millisecond
	requestTimeout = 30 * time.Second
)

// Options control a single completion request.
type Options struct {
	Temperature float64
	JSONMode    bool
}

// Completer is the full required surface of a completion backend. Any
// backend satisfying it is interchangeable at call sites.
type Completer interface {
	// Complete issues a single chat request and returns the response text.
	Complete(ctx context.Context, system string, user []string, opts Options) (string, error)
	// CompleteStream issues a token-streamed chat request. The returned
	// stream is finite and not restartable; the retry policy covers
	// connection setup only.
	CompleteStream(ctx context.Context, system string, user []string, opts Options) (*Stream, error)
}

// HealthChecker is an optional secondary capability for backends that can
// be probed for availability. Checked explicitly via type assertion.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Stream yields text deltas until io.EOF. Close releases the underlying
// connection; it is safe to call after Recv has returned an error.
type Stream struct {
	recv  func() (string, error)
	close func() error
}

// NewStream adapts a delta source into a Stream. Backends wrap their wire
// decoding with it; close may be nil.
func NewStream(recv func() (string, error), close func() error) *Stream {
	return &Stream{recv: recv, close: close}
}

// Recv returns the next text delta, or io.EOF when the stream ends.
// A mid-stream failure terminates the sequence; it is not retried.
func (s *Stream) Recv() (string, error) { return s.recv() }

func (s *Stream) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// New selects a backend from the profile: explicit override first, then a
// key-presence default, then a local availability probe. The selection is a
// pure configuration decision; the retry and streaming contract is identical
// for every backend.
func New(p profile.Profile) Completer {
	switch profile.Provider(p.LLMProvider) {
	case profile.ProviderRemote:
		return NewOpenAIClient(p.LLMAPIURL, p.LLMAPIKey, p.LLMModel)
	case profile.ProviderLocal:
		return NewOllamaClient(p.LocalAPIURL, p.LocalModel)
	}
	if p.LLMAPIKey != "" {
		return NewOpenAIClient(p.LLMAPIURL, p.LLMAPIKey, p.LLMModel)
	}
	local := NewOllamaClient(p.LocalAPIURL, p.LocalModel)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := local.CheckHealth(ctx); err != nil {
		slog.Warn("no completion backend configured and local backend unreachable", "err", err)
	}
	return local
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// retry runs fn up to maxRetries times with linearly increasing backoff.
// Only TransientUpstreamError values are retried; anything else propagates
// immediately. Exhausting the budget wraps the last failure in UpstreamError.
func retry[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	var zero T
	var last error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		last = err
		var transient *TransientUpstreamError
		if !errors.As(err, &transient) {
			return zero, err
		}
		if attempt < maxRetries {
			delay := retryDelay * time.Duration(attempt)
			slog.Warn("completion attempt failed, retrying", "op", op, "attempt", attempt, "delay", delay, "err", err)
			select {
			case <-ctx.Done():
				return zero, &UpstreamError{Cause: ctx.Err()}
			case <-time.After(delay):
			}
		}
	}
	return zero, &UpstreamError{Cause: last}
}
