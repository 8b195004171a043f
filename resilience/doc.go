// Package resilience provides resilience patterns for backend invocations.
//
// This package wraps calls to a slow, occasionally-unavailable generation
// backend so that callers see bounded, predictable failure behavior. The
// patterns can be composed per operation name through an Executor.
//
// # Patterns
//
//   - Circuit Breaker: Stops attempting an operation after consecutive
//     failures cross a threshold, until a cooldown elapses. The breaker is
//     deliberately two-state (closed/open) with no half-open probing: after
//     the cooldown the next caller simply attempts the backend again, and a
//     failure re-opens the circuit immediately.
//
//   - Retry: Automatically retries failed operations with exponential
//     backoff and bounded jitter. Non-retryable errors (marked Permanent or
//     reporting themselves non-temporary) abort immediately.
//
//   - Timeout: Bounds each attempt; composes with, but is distinct from,
//     the caller's own deadline.
//
//   - Bulkhead: Limits concurrent backend calls to prevent resource
//     exhaustion.
//
//   - Rate Limiter: Controls the rate of backend calls.
//
// # Usage
//
//	exec := resilience.NewExecutor(
//	    resilience.WithBreakers(resilience.NewBreakers(resilience.BreakerConfig{
//	        Threshold: 5,
//	        Cooldown:  time.Minute,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: 100 * time.Millisecond,
//	    })),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	err := exec.Execute(ctx, "generate_text", func(ctx context.Context) error {
//	    return callBackend(ctx)
//	})
package resilience
