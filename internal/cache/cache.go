// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/animerank/internal/metrics"
)

// DefaultTTL is the freshness window used when Options.TTL is zero.
const DefaultTTL = 60 * time.Second

// Entry is a cached value together with the time it was stored.
type Entry[V any] struct {
	Key       string
	Value     V
	CreatedAt time.Time

	prev *Entry[V]
	next *Entry[V]
}

// Options configures a Cache.
type Options struct {
	// Namespace labels the cache in metrics and logs ("recommend", "tags", ...).
	Namespace string

	// TTL is how long an entry stays fresh. Zero means DefaultTTL.
	TTL time.Duration

	// Capacity bounds the number of entries. When exceeded the least recently
	// used entry is evicted. Zero disables the bound.
	Capacity int

	// Clock is the time source. Nil means the real clock.
	Clock clockwork.Clock
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Expirations int64
	Evictions   int64
	Entries     int
}

// Cache is a concurrency-safe TTL cache with an optional LRU capacity bound.
//
// Expiry is lazy: a stale entry is dropped when it is next read, or when it
// reaches the back of the LRU list under capacity pressure. There is no
// background sweeper goroutine.
type Cache[V any] struct {
	mu       sync.Mutex
	ns       string
	ttl      time.Duration
	capacity int
	clock    clockwork.Clock

	items map[string]*Entry[V]

	// head.next is the most recently used entry, tail.prev the least.
	head *Entry[V]
	tail *Entry[V]

	stats Stats
	group singleflight.Group
}

// New creates a cache from the given options.
//
// Example:
//
//	tags := cache.New[[]string](cache.Options{Namespace: "tags", TTL: time.Minute})
//	tags.Set("nsfw=false", vocabulary)
//	if v, ok := tags.Get("nsfw=false"); ok {
//	    return v
//	}
func New[V any](opts Options) *Cache[V] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Capacity < 0 {
		opts.Capacity = 0
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Namespace == "" {
		opts.Namespace = "default"
	}

	c := &Cache[V]{
		ns:       opts.Namespace,
		ttl:      opts.TTL,
		capacity: opts.Capacity,
		clock:    opts.Clock,
		items:    make(map[string]*Entry[V]),
		head:     &Entry[V]{},
		tail:     &Entry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Namespace returns the cache's metrics label.
func (c *Cache[V]) Namespace() string {
	return c.ns
}

// TTL returns the freshness window.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key if it is still fresh, that is
// now - CreatedAt < TTL. A stale entry is removed and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.recordMiss()
		var zero V
		return zero, false
	}

	if !c.fresh(e) {
		c.removeEntry(e)
		c.stats.Expirations++
		metrics.CacheEvictions.WithLabelValues(c.ns, "expired").Inc()
		c.recordMiss()
		c.updateSize()
		var zero V
		return zero, false
	}

	c.moveToFront(e)
	c.stats.Hits++
	metrics.CacheHits.WithLabelValues(c.ns).Inc()
	return e.Value, true
}

// Set stores value under key, replacing any prior entry and restarting its
// freshness window.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if e, ok := c.items[key]; ok {
		e.Value = value
		e.CreatedAt = now
		c.moveToFront(e)
		return
	}

	e := &Entry[V]{Key: key, Value: value, CreatedAt: now}
	c.items[key] = e
	c.addToFront(e)

	if c.capacity > 0 && len(c.items) > c.capacity {
		c.evictOldest()
	}
	c.updateSize()
}

// GetOrLoad returns the fresh value for key, or calls load and stores its
// result. Concurrent misses on the same key share one load call. Errors are
// not cached. The boolean reports whether the value came from the cache.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent loader may have filled the entry while we waited.
		if v, ok := c.peek(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

// Delete removes the entry stored under key, if any.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.removeEntry(e)
		c.updateSize()
	}
}

// Clear drops every entry and returns how many were removed. It is the
// explicit invalidation hook used when the catalog snapshot changes.
func (c *Cache[V]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = make(map[string]*Entry[V])
	c.head.next = c.tail
	c.tail.prev = c.head

	if n > 0 {
		metrics.CacheEvictions.WithLabelValues(c.ns, "invalidated").Add(float64(n))
	}
	c.updateSize()
	return n
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns a copy of the performance counters.
func (c *Cache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.items)
	return s
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache[V]) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// peek reads a fresh value without touching stats or recency.
func (c *Cache[V]) peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok && c.fresh(e) {
		return e.Value, true
	}
	var zero V
	return zero, false
}

// fresh must be called with mu held.
func (c *Cache[V]) fresh(e *Entry[V]) bool {
	return c.clock.Since(e.CreatedAt) < c.ttl
}

func (c *Cache[V]) recordMiss() {
	c.stats.Misses++
	metrics.CacheMisses.WithLabelValues(c.ns).Inc()
}

func (c *Cache[V]) updateSize() {
	metrics.CacheSize.WithLabelValues(c.ns).Set(float64(len(c.items)))
}

// GenerateKey creates a cache key from the endpoint name and request
// parameters. Callers pass a canonical form (sorted, de-duplicated set
// fields) so logically identical requests share a key.
func GenerateKey(endpoint string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", endpoint, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", endpoint, hash[:16])
}
