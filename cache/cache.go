package cache

import (
	"context"
	"time"
)

// Cache is the interface for caching generation responses.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get should never error; it returns ("", false) on miss.
type Cache interface {
	// Get retrieves a cached response. Returns ("", false) on miss or expiry.
	Get(ctx context.Context, key string) (string, bool)

	// Put stores a response with optional metadata. When no TTL is given,
	// the policy default applies.
	Put(ctx context.Context, key, value string, metadata map[string]any, ttl ...time.Duration)

	// Delete removes a cached response. Idempotent - no error on miss.
	Delete(ctx context.Context, key string)

	// Clear removes all entries. Lifetime hit/miss counters are preserved.
	Clear(ctx context.Context)
}

// Stats is a point-in-time view of cache state and lifetime counters.
type Stats struct {
	// Entries is the number of live entries.
	Entries int

	// HitRate is hits / (hits + misses), 0 when nothing was requested yet.
	HitRate float64

	// AverageAge is the mean age of live entries.
	AverageAge time.Duration

	// SizeBytes is the total size of live entries (key + value bytes).
	SizeBytes int64

	// Lifetime counters. Clear does not reset them.
	Hits      int64
	Misses    int64
	Evictions int64
}
