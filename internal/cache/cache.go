// Package cache provides a typed in-process TTL cache used to memoize
// destination batches and preference lookups in front of their stores.
package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default TTLs per cached concern.
const (
	DefaultDestinationTTL = 15 * time.Minute
	DefaultPreferenceTTL  = 5 * time.Minute
	defaultCleanup        = 10 * time.Minute
)

// Metrics holds hit/miss counters for one cache.
type Metrics struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Cache is a typed wrapper around an expiring in-memory store. The zero
// value is not usable; construct with New. Safe for concurrent use.
type Cache[T any] struct {
	store  *gocache.Cache
	name   string
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache with the given default TTL.
func New[T any](name string, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		store: gocache.New(ttl, defaultCleanup),
		name:  name,
	}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	v, ok := c.store.Get(key)
	if !ok {
		c.misses.Add(1)
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return typed, true
}

// Set stores a value under key with the cache's default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.store.SetDefault(key, value)
}

// Delete removes a key.
func (c *Cache[T]) Delete(key string) {
	c.store.Delete(key)
}

// Name returns the cache's name for logging and metrics.
func (c *Cache[T]) Name() string { return c.name }

// Stats returns the cache's hit/miss counters.
func (c *Cache[T]) Stats() Metrics {
	return Metrics{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
