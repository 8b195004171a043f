// Package cache provides a bounded response cache for generation results.
//
// It provides a Cache interface with a strict least-recently-used memory
// implementation, SHA-256-based request fingerprinting, per-entry TTL
// expiration, and lifetime hit/miss statistics.
package cache
