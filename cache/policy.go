package cache

import "time"

// Policy configures entry lifetime behavior.
type Policy struct {
	// DefaultTTL is the TTL to use when none is specified on Put.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the default lifetime policy.
// DefaultTTL: 30 minutes, MaxTTL: 24 hours.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 30 * time.Minute,
		MaxTTL:     24 * time.Hour,
	}
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}

	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}
