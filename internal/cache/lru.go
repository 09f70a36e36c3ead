// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package cache

import "github.com/tomtom215/animerank/internal/metrics"

// Recency list maintenance. All helpers must be called with c.mu held.
// The list uses sentinel head and tail nodes so no nil checks are needed.

// addToFront links entry directly after head.
func (c *Cache[V]) addToFront(entry *Entry[V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

// moveToFront marks entry as most recently used.
func (c *Cache[V]) moveToFront(entry *Entry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev

	c.addToFront(entry)
}

// removeEntry unlinks entry and drops it from the index.
func (c *Cache[V]) removeEntry(entry *Entry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	entry.prev = nil
	entry.next = nil

	delete(c.items, entry.Key)
}

// evictOldest drops the least recently used entry. A stale entry at the
// back counts as an expiration rather than a capacity eviction.
func (c *Cache[V]) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}

	if c.fresh(oldest) {
		c.stats.Evictions++
		metrics.CacheEvictions.WithLabelValues(c.ns, "capacity").Inc()
	} else {
		c.stats.Expirations++
		metrics.CacheEvictions.WithLabelValues(c.ns, "expired").Inc()
	}
	c.removeEntry(oldest)
}
