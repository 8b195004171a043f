package gateway

import (
	"context"
	"time"
)

// Operation names routed through the client. Each name gets its own
// circuit breaker and its own performance statistics.
const (
	OpGenerateText = "generate_text"
	OpAnalyzeCode  = "analyze_code"
)

// Backend is the injected collaborator that performs the actual
// generation call. Implementations wrap a provider SDK or HTTP API;
// the client never assumes anything about transport.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Complete must honor cancellation and deadlines.
// - Errors: transient failures should be returned as-is so the retry
//   layer can classify them; invalid-request failures should be
//   wrapped with resilience.Permanent.
type Backend interface {
	// Name identifies the backend for health and status reporting.
	Name() string

	// Complete generates a response for the request.
	Complete(ctx context.Context, req *Request) (string, error)
}

// Request carries the parameters of one generation call.
type Request struct {
	// Operation is filled in by the client; callers leave it empty.
	Operation string

	// Prompt is the input text. Required.
	Prompt string

	// Model optionally selects a backend model.
	Model string

	// MaxTokens optionally limits the response length.
	MaxTokens int

	// Temperature optionally controls randomness.
	Temperature float64

	// Metadata is carried for tracking and logging only; it does not
	// participate in the cache fingerprint.
	Metadata map[string]string
}

// fingerprintParams returns the parameters that identify this request
// for caching. Two requests that only differ in Metadata share a key.
func (r *Request) fingerprintParams() map[string]any {
	params := map[string]any{
		"prompt": r.Prompt,
	}
	if r.Model != "" {
		params["model"] = r.Model
	}
	if r.MaxTokens > 0 {
		params["max_tokens"] = r.MaxTokens
	}
	if r.Temperature != 0 {
		params["temperature"] = r.Temperature
	}
	return params
}

// Response is the outcome of one successful invocation.
type Response struct {
	// Content is the generated text.
	Content string

	// Operation is the operation name that produced it.
	Operation string

	// Backend is the name of the serving backend.
	Backend string

	// Cached is true when the response came from the cache without a
	// backend call.
	Cached bool

	// Attempts is the number of backend calls made, 0 for a cache hit.
	Attempts int

	// Duration is the total invocation time including retries.
	Duration time.Duration
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc struct {
	name string
	fn   func(context.Context, *Request) (string, error)
}

// NewBackendFunc creates a Backend from a completion function.
func NewBackendFunc(name string, fn func(context.Context, *Request) (string, error)) *BackendFunc {
	return &BackendFunc{name: name, fn: fn}
}

// Name identifies the backend.
func (b *BackendFunc) Name() string {
	return b.name
}

// Complete generates a response for the request.
func (b *BackendFunc) Complete(ctx context.Context, req *Request) (string, error) {
	return b.fn(ctx, req)
}

var _ Backend = (*BackendFunc)(nil)
