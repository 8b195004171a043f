package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrEmptyOperation is returned when a key is requested for an empty
	// operation name.
	ErrEmptyOperation = errors.New("cache: operation name is empty")

	// ErrCanonicalize is returned when request parameters cannot be
	// serialized into a canonical form.
	ErrCanonicalize = errors.New("cache: failed to canonicalize params")
)
