// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newTestCache(t *testing.T, ttl time.Duration, capacity int) (*Cache[string], *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	c := New[string](Options{Namespace: "test", TTL: ttl, Capacity: capacity, Clock: clock})
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 0)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheDefaults(t *testing.T) {
	c := New[int](Options{})
	if c.TTL() != DefaultTTL {
		t.Errorf("TTL = %v, want %v", c.TTL(), DefaultTTL)
	}
	if c.Namespace() != "default" {
		t.Errorf("Namespace = %q, want default", c.Namespace())
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(t, 60*time.Second, 0)

	c.Set("key1", "value1")

	clock.Advance(59 * time.Second)
	if _, exists := c.Get("key1"); !exists {
		t.Fatal("Expected key1 to be fresh just inside the TTL")
	}

	// now - createdAt == TTL is already stale
	clock.Advance(time.Second)
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired at exactly TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be dropped, Len = %d", c.Len())
	}

	stats := c.GetStats()
	if stats.Expirations != 1 {
		t.Errorf("Expirations = %d, want 1", stats.Expirations)
	}
}

func TestCacheSetRestartsFreshness(t *testing.T) {
	c, clock := newTestCache(t, 10*time.Second, 0)

	c.Set("k", "old")
	clock.Advance(8 * time.Second)
	c.Set("k", "new")
	clock.Advance(8 * time.Second)

	v, ok := c.Get("k")
	if !ok || v != "new" {
		t.Errorf("Get = (%q, %v), want (new, true)", v, ok)
	}
}

func TestCacheDelete(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 0)

	c.Set("key1", "value1")
	c.Delete("key1")
	c.Delete("missing")

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
}

func TestCacheClear(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 0)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	if n := c.Clear(); n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}

	for _, key := range []string{"key1", "key2", "key3"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}

	// The list must still be usable after a clear.
	c.Set("key4", "value4")
	if v, ok := c.Get("key4"); !ok || v != "value4" {
		t.Errorf("Get after Clear = (%q, %v)", v, ok)
	}
}

func TestCacheCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 2)

	c.Set("a", "1")
	c.Set("b", "2")

	// Touch a so b becomes the least recently used.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Expected a to exist")
	}

	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("Expected b to be evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("Expected %s to survive eviction", key)
		}
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestCacheCapacityPrefersStaleVictim(t *testing.T) {
	c, clock := newTestCache(t, 10*time.Second, 2)

	c.Set("old", "1")
	clock.Advance(11 * time.Second)
	c.Set("fresh", "2")
	c.Set("newest", "3")

	stats := c.GetStats()
	if stats.Expirations != 1 || stats.Evictions != 0 {
		t.Errorf("stats = %+v, want one expiration and no capacity eviction", stats)
	}
}

func TestCacheGetOrLoad(t *testing.T) {
	c, clock := newTestCache(t, time.Minute, 0)

	var calls int
	load := func() (string, error) {
		calls++
		return fmt.Sprintf("computed-%d", calls), nil
	}

	v, cached, err := c.GetOrLoad("k", load)
	if err != nil || cached || v != "computed-1" {
		t.Fatalf("first GetOrLoad = (%q, %v, %v)", v, cached, err)
	}

	v, cached, err = c.GetOrLoad("k", load)
	if err != nil || !cached || v != "computed-1" {
		t.Fatalf("second GetOrLoad = (%q, %v, %v)", v, cached, err)
	}
	if calls != 1 {
		t.Errorf("load called %d times within TTL, want 1", calls)
	}

	clock.Advance(time.Minute)
	v, cached, err = c.GetOrLoad("k", load)
	if err != nil || cached || v != "computed-2" {
		t.Errorf("GetOrLoad after TTL = (%q, %v, %v)", v, cached, err)
	}
}

func TestCacheGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 0)
	boom := errors.New("boom")

	if _, _, err := c.GetOrLoad("k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if c.Len() != 0 {
		t.Errorf("error result was cached, Len = %d", c.Len())
	}
}

func TestCacheGetOrLoadCollapsesConcurrentMisses(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 0)

	var calls atomic.Int32
	release := make(chan struct{})
	load := func() (string, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, _, err := c.GetOrLoad("shared", load); err != nil || v != "value" {
				t.Errorf("GetOrLoad = (%q, %v)", v, err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() > 2 {
		t.Errorf("load called %d times for one key", calls.Load())
	}
}

func TestCacheStats(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 0)

	c.Set("key1", "value1")
	c.Get("key1")
	c.Get("key1")
	c.Get("key2")

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.Entries != 1 {
		t.Errorf("Expected 1 entry, got %d", stats.Entries)
	}

	hitRate := c.HitRate()
	expected := 2.0 / 3.0 * 100.0
	if hitRate < expected-0.01 || hitRate > expected+0.01 {
		t.Errorf("Expected hit rate ~%.2f%%, got %.2f%%", expected, hitRate)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Liked []int `json:"liked"`
		NSFW  bool  `json:"nsfw"`
	}

	key1 := GenerateKey("recommend", params{Liked: []int{1, 2}})
	key2 := GenerateKey("recommend", params{Liked: []int{1, 2}})
	key3 := GenerateKey("recommend", params{Liked: []int{1, 3}})
	key4 := GenerateKey("recommend_more", params{Liked: []int{1, 2}})

	if key1 != key2 {
		t.Error("Expected same key for identical params")
	}
	if key1 == key3 {
		t.Error("Expected different keys for different params")
	}
	if key1 == key4 {
		t.Error("Expected different keys for different endpoints")
	}
	if len(key1) != len("recommend:")+32 {
		t.Errorf("Unexpected key length %d: %s", len(key1), key1)
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := New[int](Options{Namespace: "concurrency", TTL: time.Minute, Capacity: 50})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("key-%d", (worker*j)%80)
				c.Set(key, j)
				c.Get(key)
				if j%50 == 0 {
					c.Delete(key)
				}
				if j%97 == 0 {
					c.Clear()
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len = %d exceeds capacity 50", c.Len())
	}
}

func BenchmarkCacheSet(b *testing.B) {
	c := New[int](Options{Namespace: "bench", TTL: time.Minute, Capacity: 1024})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key%d", i%2048), i)
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[int](Options{Namespace: "bench", TTL: time.Minute})
	c.Set("key", 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}
