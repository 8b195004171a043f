package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls flow through normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without touching the backend.
	StateOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures circuit breakers.
type BreakerConfig struct {
	// Threshold is the number of consecutive failures before opening.
	// Default: 5
	Threshold int

	// Cooldown is how long an open circuit rejects calls after the last
	// failure before the next caller may attempt the backend again.
	// Default: 60 seconds
	Cooldown time.Duration

	// OnStateChange is called when a breaker's state changes.
	OnStateChange func(operation string, from, to State)
}

// Breaker is a two-state circuit breaker for a single operation name.
//
// The state is derived, never stored: the circuit is open exactly while
// the consecutive failure count has reached the threshold and the
// cooldown since the last failure has not elapsed. There is no half-open
// probing and no background timer - once the cooldown passes, the first
// caller that checks simply reaches the backend again, and a failure
// re-opens the circuit immediately.
type Breaker struct {
	operation string
	config    BreakerConfig

	mu          sync.Mutex
	failures    int
	lastFailure time.Time
}

// NewBreaker creates a breaker for one operation name.
func NewBreaker(operation string, config BreakerConfig) *Breaker {
	// Apply defaults
	if config.Threshold <= 0 {
		config.Threshold = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 60 * time.Second
	}

	return &Breaker{
		operation: operation,
		config:    config,
	}
}

// Allow reports whether a call may proceed. Returns ErrCircuitOpen while
// the circuit is open; the backend must not be invoked in that case.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openLocked(time.Now()) {
		return ErrCircuitOpen
	}
	return nil
}

// RecordSuccess resets the consecutive failure count.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	was := b.stateLocked(time.Now())
	b.failures = 0
	b.notifyLocked(was, StateClosed)
}

// RecordFailure increments the consecutive failure count and stamps the
// failure time. Crossing the threshold opens the circuit instantly.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	was := b.stateLocked(now)
	b.failures++
	b.lastFailure = now
	b.notifyLocked(was, b.stateLocked(now))
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked(time.Now())
}

// Reset closes the circuit and clears the failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	was := b.stateLocked(time.Now())
	b.failures = 0
	b.lastFailure = time.Time{}
	b.notifyLocked(was, StateClosed)
}

// Metrics returns current breaker statistics.
func (b *Breaker) Metrics() BreakerMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BreakerMetrics{
		Operation:           b.operation,
		State:               b.stateLocked(time.Now()),
		ConsecutiveFailures: b.failures,
		LastFailure:         b.lastFailure,
	}
}

func (b *Breaker) openLocked(now time.Time) bool {
	return b.failures >= b.config.Threshold && now.Sub(b.lastFailure) < b.config.Cooldown
}

func (b *Breaker) stateLocked(now time.Time) State {
	if b.openLocked(now) {
		return StateOpen
	}
	return StateClosed
}

func (b *Breaker) notifyLocked(from, to State) {
	if from != to && b.config.OnStateChange != nil {
		b.config.OnStateChange(b.operation, from, to)
	}
}

// BreakerMetrics contains circuit breaker statistics.
type BreakerMetrics struct {
	Operation           string
	State               State
	ConsecutiveFailures int
	LastFailure         time.Time
}

// Breakers is a registry of circuit breakers keyed by operation name.
// Breakers are created lazily on first use, all sharing one config.
type Breakers struct {
	config BreakerConfig

	mu   sync.Mutex
	byOp map[string]*Breaker
}

// NewBreakers creates a new breaker registry.
func NewBreakers(config BreakerConfig) *Breakers {
	return &Breakers{
		config: config,
		byOp:   make(map[string]*Breaker),
	}
}

// For returns the breaker for an operation name, creating it on first use.
func (bs *Breakers) For(operation string) *Breaker {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	b, ok := bs.byOp[operation]
	if !ok {
		b = NewBreaker(operation, bs.config)
		bs.byOp[operation] = b
	}
	return b
}

// States returns a metrics snapshot for every tracked operation.
func (bs *Breakers) States() map[string]BreakerMetrics {
	bs.mu.Lock()
	breakers := make(map[string]*Breaker, len(bs.byOp))
	for op, b := range bs.byOp {
		breakers[op] = b
	}
	bs.mu.Unlock()

	out := make(map[string]BreakerMetrics, len(breakers))
	for op, b := range breakers {
		out[op] = b.Metrics()
	}
	return out
}
