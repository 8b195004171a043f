package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// LRUConfig configures the LRU cache.
type LRUConfig struct {
	// MaxEntries is the entry capacity before eviction.
	// Default: 1000
	MaxEntries int

	// Policy controls entry lifetimes.
	// Default: DefaultPolicy()
	Policy Policy
}

// entry is owned exclusively by the cache and never escapes it.
type entry struct {
	key         string
	value       string
	metadata    map[string]any
	createdAt   time.Time
	expiresAt   time.Time
	accessCount int64
	sizeBytes   int64
	elem        *list.Element
}

// LRUCache is a bounded in-memory cache with per-entry expiration and
// strict least-recently-used eviction. Recency is updated on both reads
// and writes; among never-read entries the oldest inserted goes first.
type LRUCache struct {
	config LRUConfig

	mu      sync.Mutex
	entries map[string]*entry
	order   *list.List // front = least recently used

	hits      *atomic.Int64
	misses    *atomic.Int64
	evictions *atomic.Int64
}

// NewLRUCache creates a new LRU cache.
func NewLRUCache(config LRUConfig) *LRUCache {
	// Apply defaults
	if config.MaxEntries <= 0 {
		config.MaxEntries = 1000
	}
	if config.Policy == (Policy{}) {
		config.Policy = DefaultPolicy()
	}

	return &LRUCache{
		config:    config,
		entries:   make(map[string]*entry),
		order:     list.New(),
		hits:      atomic.NewInt64(0),
		misses:    atomic.NewInt64(0),
		evictions: atomic.NewInt64(0),
	}
}

// Get retrieves a cached response. A hit promotes the entry to
// most-recently-used and increments its access count. An expired entry is
// removed and counted as a miss.
func (c *LRUCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Inc()
		return "", false
	}

	if time.Now().After(e.expiresAt) {
		c.removeLocked(e)
		c.misses.Inc()
		return "", false
	}

	e.accessCount++
	c.order.MoveToBack(e.elem)
	c.hits.Inc()
	return e.value, true
}

// Put inserts or overwrites a response. Expired entries are purged first;
// if the store is still at capacity the single least-recently-used entry
// is evicted. The written key becomes most-recently-used.
func (c *LRUCache) Put(_ context.Context, key, value string, metadata map[string]any, ttl ...time.Duration) {
	override := time.Duration(0)
	if len(ttl) > 0 {
		override = ttl[0]
	}
	effective := c.config.Policy.EffectiveTTL(override)

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked(now)

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.metadata = metadata
		e.createdAt = now
		e.expiresAt = now.Add(effective)
		e.sizeBytes = int64(len(key) + len(value))
		c.order.MoveToBack(e.elem)
		return
	}

	if len(c.entries) >= c.config.MaxEntries {
		c.evictOldestLocked()
	}

	e := &entry{
		key:       key,
		value:     value,
		metadata:  metadata,
		createdAt: now,
		expiresAt: now.Add(effective),
		sizeBytes: int64(len(key) + len(value)),
	}
	e.elem = c.order.PushBack(e)
	c.entries[key] = e
}

// Delete removes a cached response. Idempotent - no error on miss.
func (c *LRUCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.removeLocked(e)
	}
}

// Clear removes all entries and resets recency order. Lifetime hit/miss
// counters are preserved.
func (c *LRUCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	c.order.Init()
}

// Len returns the number of live entries.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache state and lifetime counters.
func (c *LRUCache) Stats() Stats {
	c.mu.Lock()
	now := time.Now()
	var totalAge time.Duration
	var totalSize int64
	count := len(c.entries)
	for _, e := range c.entries {
		totalAge += now.Sub(e.createdAt)
		totalSize += e.sizeBytes
	}
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	s := Stats{
		Entries:   count,
		SizeBytes: totalSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
	}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	if count > 0 {
		s.AverageAge = totalAge / time.Duration(count)
	}
	return s
}

func (c *LRUCache) purgeExpiredLocked(now time.Time) {
	for e := c.order.Front(); e != nil; {
		next := e.Next()
		ent := e.Value.(*entry)
		if now.After(ent.expiresAt) {
			c.removeLocked(ent)
		}
		e = next
	}
}

func (c *LRUCache) evictOldestLocked() {
	front := c.order.Front()
	if front == nil {
		return
	}
	c.removeLocked(front.Value.(*entry))
	c.evictions.Inc()
}

func (c *LRUCache) removeLocked(e *entry) {
	c.order.Remove(e.elem)
	delete(c.entries, e.key)
}

// Ensure LRUCache implements Cache
var _ Cache = (*LRUCache)(nil)
