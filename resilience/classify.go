package resilience

import (
	"context"
	"errors"
)

// Temporary indicates if an error condition is temporary and may succeed
// if retried. Backends can implement it on their error types to steer
// retry decisions.
type Temporary interface {
	Temporary() bool
}

// PermanentError marks an error as non-retryable. Authentication failures
// and invalid configuration are the typical cases: retrying them only
// repeats the same rejection.
type PermanentError struct {
	Err error
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	return "resilience: permanent: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so that IsRetryable reports false for it.
// Returns nil if err is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsRetryable reports whether err is worth another attempt.
//
// Permanent errors, circuit-open rejections, and the caller's own
// cancellation are never retryable. Errors implementing Temporary have
// the final say. Everything else - timeouts, transient backend errors -
// is considered retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pe *PermanentError
	if errors.As(err, &pe) {
		return false
	}

	if errors.Is(err, ErrCircuitOpen) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var tmp Temporary
	if errors.As(err, &tmp) {
		return tmp.Temporary()
	}

	return true
}
