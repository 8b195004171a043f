package gateway

import "errors"

var (
	// ErrNoBackend indicates New was called without a backend.
	ErrNoBackend = errors.New("gateway: backend is required")

	// ErrNilRequest indicates an invocation with a nil request.
	ErrNilRequest = errors.New("gateway: request is nil")

	// ErrEmptyPrompt indicates an invocation with an empty prompt.
	ErrEmptyPrompt = errors.New("gateway: prompt is empty")
)
