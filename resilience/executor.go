package resilience

import (
	"context"
	"errors"
	"time"
)

// Executor composes the resilience patterns around named operations.
//
// Per call, the order is: rate limiter, bulkhead, then the retry loop.
// The operation's circuit breaker is consulted before every attempt, and
// each attempt runs under the per-attempt timeout. A final failure is
// returned as an *OperationError annotating the last error with the
// attempt count and the circuit's resulting state.
type Executor struct {
	breakers    *Breakers
	retry       *Retry
	timeout     *Timeout
	bulkhead    *Bulkhead
	rateLimiter *RateLimiter
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor. The circuit breaker
// registry and retry handler always exist; when not supplied they are
// created with default configs.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.breakers == nil {
		e.breakers = NewBreakers(BreakerConfig{})
	}
	if e.retry == nil {
		e.retry = NewRetry(RetryConfig{})
	}
	return e
}

// WithBreakers sets the circuit breaker registry.
func WithBreakers(bs *Breakers) ExecutorOption {
	return func(e *Executor) {
		e.breakers = bs
	}
}

// WithRetry sets the retry handler.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithTimeout adds a per-attempt timeout.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// WithBulkhead adds concurrency isolation.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) {
		e.bulkhead = b
	}
}

// WithRateLimiter adds rate limiting.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// Breakers returns the circuit breaker registry, for operational
// status queries.
func (e *Executor) Breakers() *Breakers {
	return e.breakers
}

// Execute runs the operation through all configured patterns.
func (e *Executor) Execute(ctx context.Context, operation string, op func(context.Context) error) error {
	br := e.breakers.For(operation)
	attempts := 0

	attempt := func(ctx context.Context) error {
		if err := br.Allow(); err != nil {
			return err
		}
		attempts++

		var err error
		if e.timeout != nil {
			err = e.timeout.Execute(ctx, op)
		} else {
			err = op(ctx)
		}

		if err == nil {
			br.RecordSuccess()
			return nil
		}
		// Non-retryable failures leave the circuit untouched: the backend
		// was reachable, the request itself was unacceptable.
		if IsRetryable(err) {
			br.RecordFailure()
		}
		return err
	}

	run := func(ctx context.Context) error {
		return e.retry.Execute(ctx, attempt)
	}

	if e.bulkhead != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.bulkhead.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := run
		run = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	err := run(ctx)
	if err == nil {
		return nil
	}

	// Limiter rejections precede any attempt; pass them through untouched.
	if errors.Is(err, ErrBulkheadFull) || errors.Is(err, ErrRateLimitExceeded) {
		return err
	}

	return &OperationError{
		Operation:   operation,
		Attempts:    attempts,
		CircuitOpen: br.State() == StateOpen,
		Err:         err,
	}
}
