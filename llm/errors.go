package llm

import (
	"fmt"
)

// Error kinds form the taxonomy used across the routing pipeline. Callers
// match them with errors.As; each kind carries the wrapped cause where one
// exists.

// InvalidInputError marks a bad or missing caller-supplied argument. Never
// retried; surfaced immediately as a user-visible message.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// ConfigurationError marks a missing credential, model, or endpoint. Never
// retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// TransientUpstreamError marks a failure worth retrying: network errors,
// rate limits, connection-level upstream faults.
type TransientUpstreamError struct {
	Cause error
}

func (e *TransientUpstreamError) Error() string {
	return "transient upstream error: " + e.Cause.Error()
}

func (e *TransientUpstreamError) Unwrap() error { return e.Cause }

// UpstreamError marks an exhausted retry budget or a non-retryable upstream
// failure. Surfaced to the user; never crashes the process.
type UpstreamError struct {
	Cause error
}

func (e *UpstreamError) Error() string {
	return "upstream error: " + e.Cause.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// ParseError marks model output that is not valid structured data. The
// router recovers from it locally; it never reaches a caller as a hard
// failure.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }
