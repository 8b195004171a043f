package resilience

import (
	"errors"
	"fmt"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open. The
	// backend is never touched in this case.
	ErrCircuitOpen = errors.New("resilience: service unavailable: circuit breaker is open")

	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when a single attempt times out. Attempt
	// timeouts are retryable; the caller's own deadline is not.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// OperationError annotates a final failure with the operation name, how
// many attempts were made, and whether the circuit is now open.
type OperationError struct {
	Operation   string
	Attempts    int
	CircuitOpen bool
	Err         error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("resilience: operation %q failed after %d attempt(s) (circuit open: %t): %v",
		e.Operation, e.Attempts, e.CircuitOpen, e.Err)
}

// Unwrap returns the last observed error.
func (e *OperationError) Unwrap() error {
	return e.Err
}
