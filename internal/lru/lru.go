// Package lru wraps an expirable LRU with the hit/miss accounting the
// engine caches report through trace events.
package lru

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a bounded, thread-safe cache with LRU eviction and per-entry TTL.
// Get refreshes recency; entries older than the TTL are dropped lazily and by
// the background reaper of the underlying implementation.
type Cache[K comparable, V any] struct {
	inner  *expirable.LRU[K, V]
	size   int
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Size   int
	Cap    int
	Hits   uint64
	Misses uint64
}

func (s Stats) String() string {
	rate := 0.0
	if total := s.Hits + s.Misses; total > 0 {
		rate = float64(s.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("%d/%d entries, %d hits, %d misses (%.0f%%)", s.Size, s.Cap, s.Hits, s.Misses, rate)
}

// New creates a cache holding at most size entries for at most ttl each.
// size <= 0 falls back to 1, ttl <= 0 disables expiry.
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	if size <= 0 {
		size = 1
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache[K, V]{
		inner: expirable.NewLRU[K, V](size, nil, ttl),
		size:  size,
		ttl:   ttl,
	}
}

// Get returns the cached value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.inner.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores value under key, evicting the least recently used entry when full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.inner.Add(key, value)
}

// GetOrCompute returns the cached value or computes, stores and returns it.
// compute may run more than once for the same key under contention; the
// results are expected to be identical.
func (c *Cache[K, V]) GetOrCompute(key K, compute func(K) V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute(key)
	c.Put(key, v)
	return v
}

// Len reports the number of live entries.
func (c *Cache[K, V]) Len() int { return c.inner.Len() }

// Purge drops every entry and resets counters.
func (c *Cache[K, V]) Purge() {
	c.inner.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// TTL returns the configured time-to-live.
func (c *Cache[K, V]) TTL() time.Duration { return c.ttl }

// Stats returns current counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Size:   c.inner.Len(),
		Cap:    c.size,
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
