package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy defines how delays increase between retries.
type BackoffStrategy int

const (
	// BackoffExponential doubles the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all retries.
	BackoffConstant
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// JitterFraction is the bound on the random fraction of the backoff
	// term added to each delay, keeping concurrent retriers of the same
	// operation from synchronizing. Negative disables jitter.
	// Default: 0.1
	JitterFraction float64

	// RetryIf determines if an error should trigger a retry.
	// Default: IsRetryable
	RetryIf func(err error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry implements retry with backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.JitterFraction < 0 {
		config.JitterFraction = 0
	} else if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}
	if config.RetryIf == nil {
		config.RetryIf = IsRetryable
	}

	return &Retry{config: config}
}

// Execute runs the operation with retry logic. The final error after
// exhaustion is the last error the operation returned. Cancellation
// during a backoff wait aborts with the context's error; no further
// attempt is made.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := op(ctx)

		if err == nil {
			return nil
		}

		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}

		if attempt >= r.config.MaxAttempts {
			break
		}

		delay := r.delayForAttempt(attempt)

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// Continue to next attempt
		}
	}

	return lastErr
}

// delayForAttempt computes min(backoff(attempt) + jitter, MaxDelay),
// where jitter is uniform in [0, JitterFraction*backoff(attempt)].
func (r *Retry) delayForAttempt(attempt int) time.Duration {
	var backoff time.Duration

	switch r.config.Strategy {
	case BackoffConstant:
		backoff = r.config.InitialDelay

	case BackoffLinear:
		backoff = r.config.InitialDelay * time.Duration(attempt)

	case BackoffExponential:
		multiplier := math.Pow(r.config.Multiplier, float64(attempt-1))
		backoff = time.Duration(float64(r.config.InitialDelay) * multiplier)
	}

	delay := backoff
	if r.config.JitterFraction > 0 && backoff > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Float64() * r.config.JitterFraction * float64(backoff))
	}

	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
