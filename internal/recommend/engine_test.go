// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/animerank/internal/cache"
	"github.com/tomtom215/animerank/internal/catalog"
)

func newTestEngine(t *testing.T, snap *catalog.Snapshot, emb Embedder, clock clockwork.Clock) *Engine {
	t.Helper()

	results := cache.New[[]ScoredResult](cache.Options{
		Namespace: "recommend_test",
		TTL:       time.Minute,
		Clock:     clock,
	})
	agg := NewAggregator(nil, emb, NewResolver(80), zerolog.Nop())

	e, err := NewEngine(DefaultConfig(), staticSource{snap: snap}, agg, results, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	bad := DefaultConfig()
	bad.MaxLimit = 1
	if _, err := NewEngine(bad, staticSource{}, nil, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for max limit below default limit")
	}
	if _, err := NewEngine(DefaultConfig(), nil, nil, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for missing snapshot source")
	}
	if _, err := NewEngine(DefaultConfig(), staticSource{snap: newSnapshot()}, nil, nil, zerolog.Nop()); err != nil {
		t.Errorf("defaults should be accepted: %v", err)
	}
}

// A liked item is never recommended, and an item with no overlap, no
// embedding and no query scores zero and is dropped.
func TestRecommendLikedOnlyCatalog(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(
		anime(1, "One", []string{"action", "isekai"}),
		anime(2, "Two", []string{"romance"}),
	)
	e := newTestEngine(t, snap, nil, nil)

	got, _, err := e.Recommend(context.Background(), EndpointRecommend, Request{
		LikedIDs: []int{1},
		NSFWOk:   true,
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Recommend() = %v, want empty list", resultIDs(got))
	}
}

func TestRecommendProjection(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(
		anime(1, "Liked", []string{"action", "drama"}),
		anime(2, "Match", []string{"Drama", "Action", "mecha"}),
		anime(3, "Partial", []string{"drama"}),
		anime(4, "Spicy", []string{"action", "ecchi"}, nsfwAnime()),
	)
	e := newTestEngine(t, snap, nil, nil)

	got, cached, err := e.Recommend(context.Background(), EndpointRecommend, Request{LikedIDs: []int{1}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if cached {
		t.Error("first request reported as cached")
	}
	if ids := resultIDs(got); !equalInts(ids, []int{2, 3}) {
		t.Fatalf("ids = %v, want [2 3]", ids)
	}

	top := got[0]
	if top.Score != 1 || got[1].Score != 0.5 {
		t.Errorf("scores = %v, %v, want 1, 0.5", top.Score, got[1].Score)
	}
	if top.Anime.Title != "Match" {
		t.Errorf("title = %q", top.Anime.Title)
	}
	if len(top.Reason.OverlapTags) != 2 || top.Reason.OverlapTags[0] != "action" || top.Reason.OverlapTags[1] != "drama" {
		t.Errorf("overlap = %v, want [action drama]", top.Reason.OverlapTags)
	}
	if top.Reason.Note != MatchNote {
		t.Errorf("note = %q", top.Reason.Note)
	}
}

func TestRecommendLimit(t *testing.T) {
	t.Parallel()

	items := []*catalog.Item{anime(1, "Liked", []string{"action"})}
	for id := 2; id <= 150; id++ {
		items = append(items, anime(id, "Candidate", []string{"action"}))
	}
	e := newTestEngine(t, newSnapshot(items...), nil, nil)

	tests := []struct {
		limit int
		want  int
	}{
		{0, 10},
		{-3, 10},
		{7, 7},
		{100, 100},
		{500, 100},
	}

	for _, tt := range tests {
		got, _, err := e.Recommend(context.Background(), EndpointRecommend, Request{LikedIDs: []int{1}, Limit: tt.limit})
		if err != nil {
			t.Fatalf("limit %d: error = %v", tt.limit, err)
		}
		if len(got) != tt.want {
			t.Errorf("limit %d: len = %d, want %d", tt.limit, len(got), tt.want)
		}
		if len(got) > 0 && got[0].Anime.ID != 2 {
			t.Errorf("limit %d: first id = %d, want 2 (catalog order on ties)", tt.limit, got[0].Anime.ID)
		}
	}
}

func TestRecommendCache(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(
		anime(1, "A", []string{"action"}, withEmbedding(1, 0)),
		anime(2, "B", []string{"action"}, withEmbedding(0, 1)),
	)
	emb := &fakeEmbedder{vec: []float64{1, 0}}
	clock := clockwork.NewFakeClock()
	e := newTestEngine(t, snap, emb, clock)
	ctx := context.Background()

	req := Request{Query: "space", ExcludeIDs: []int{2, 2}, Moods: []string{"B", "a"}}
	first, cached, err := e.Recommend(ctx, EndpointRecommend, req)
	if err != nil || cached {
		t.Fatalf("first: cached=%v err=%v", cached, err)
	}

	// Same request in a different order hits the cache.
	reordered := Request{Query: " space ", ExcludeIDs: []int{2}, Moods: []string{"a", "b"}}
	second, cached, err := e.Recommend(ctx, EndpointRecommend, reordered)
	if err != nil || !cached {
		t.Fatalf("second: cached=%v err=%v", cached, err)
	}
	if emb.calls.Load() != 1 {
		t.Errorf("embed calls = %d, want 1", emb.calls.Load())
	}
	if len(second) != len(first) || &second[0] != &first[0] {
		t.Error("cache hit returned a different result")
	}

	// Endpoints are cached separately.
	if _, cached, _ := e.Recommend(ctx, EndpointRecommendMore, req); cached {
		t.Error("recommend_more shared the recommend cache entry")
	}

	clock.Advance(59 * time.Second)
	if _, cached, _ := e.Recommend(ctx, EndpointRecommend, req); !cached {
		t.Error("entry expired before its TTL")
	}

	clock.Advance(time.Second)
	if _, cached, _ := e.Recommend(ctx, EndpointRecommend, req); cached {
		t.Error("entry served at its TTL")
	}
	if emb.calls.Load() != 3 {
		t.Errorf("embed calls = %d, want 3", emb.calls.Load())
	}

	if n := e.InvalidateCache(); n != 2 {
		t.Errorf("InvalidateCache() = %d, want 2", n)
	}
	if _, cached, _ := e.Recommend(ctx, EndpointRecommend, req); cached {
		t.Error("hit after invalidation")
	}

	m := e.GetMetrics()
	if m.TotalRequests != 6 || m.CacheHits != 2 || m.CacheMisses != 4 {
		t.Errorf("metrics = %+v", m)
	}
}

// A ranking that finishes after the catalog was replaced must not be
// served to requests made against the new catalog.
func TestRecommendInFlightRankingAcrossRefresh(t *testing.T) {
	t.Parallel()

	src := &swapSource{}
	src.current.Store(newSnapshot(
		anime(1, "A", []string{"action"}, withEmbedding(1, 0)),
		anime(2, "B", []string{"action"}, withEmbedding(0, 1)),
	))
	emb := newGatedEmbedder(1, 0)
	agg := NewAggregator(nil, emb, NewResolver(80), zerolog.Nop())
	e, err := NewEngine(DefaultConfig(), src, agg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	ctx := context.Background()
	req := Request{Query: "space"}

	type outcome struct {
		ids []int
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		got, _, err := e.Recommend(ctx, EndpointRecommend, req)
		done <- outcome{ids: resultIDs(got), err: err}
	}()

	<-emb.started
	src.current.Store(newSnapshot(anime(2, "B", []string{"action"}, withEmbedding(1, 0))))
	if n := e.InvalidateCache(); n != 0 {
		t.Errorf("InvalidateCache() = %d, want 0 while the ranking is in flight", n)
	}
	close(emb.release)

	old := <-done
	if old.err != nil {
		t.Fatalf("in-flight Recommend() error = %v", old.err)
	}
	if !equalInts(old.ids, []int{1}) {
		t.Fatalf("in-flight ids = %v, want [1]", old.ids)
	}

	got, cached, err := e.Recommend(ctx, EndpointRecommend, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if cached {
		t.Error("served a ranking computed against the replaced catalog")
	}
	if ids := resultIDs(got); !equalInts(ids, []int{2}) {
		t.Errorf("ids = %v, want [2]", ids)
	}

	if _, cached, _ := e.Recommend(ctx, EndpointRecommend, req); !cached {
		t.Error("ranking for the current catalog was not cached")
	}
}

func TestRecommendErrorsNotCached(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(anime(1, "A", []string{"action"}, withEmbedding(1, 0)))
	emb := &fakeEmbedder{err: errUpstream}
	e := newTestEngine(t, snap, emb, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := e.Recommend(ctx, EndpointRecommend, Request{Query: "mecha"})
		if !errors.Is(err, ErrExternalService) {
			t.Fatalf("attempt %d: error = %v, want ErrExternalService", i, err)
		}
	}
	if emb.calls.Load() != 2 {
		t.Errorf("embed calls = %d, want 2 (errors must not be cached)", emb.calls.Load())
	}
	if e.GetMetrics().Errors != 2 {
		t.Errorf("errors = %d, want 2", e.GetMetrics().Errors)
	}

	_, _, err := e.Recommend(ctx, EndpointRecommend, Request{LikedIDs: []int{404}})
	var invalid *InvalidReferenceError
	if !errors.As(err, &invalid) {
		t.Errorf("error = %v, want *InvalidReferenceError", err)
	}
}

func TestRecommendDimensionMismatch(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(anime(1, "A", []string{"action"}, withEmbedding(1, 0, 0)))
	e := newTestEngine(t, snap, &fakeEmbedder{vec: []float64{1, 0}}, nil)

	_, _, err := e.Recommend(context.Background(), EndpointRecommend, Request{Query: "mecha"})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("error = %v, want ErrDimensionMismatch", err)
	}
	if RejectReason(err) != "scoring_error" {
		t.Errorf("RejectReason = %q", RejectReason(err))
	}
}

func TestRecommendConcurrent(t *testing.T) {
	t.Parallel()

	snap := newSnapshot(
		anime(1, "A", []string{"action"}),
		anime(2, "B", []string{"action"}),
	)
	e := newTestEngine(t, snap, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, _, err := e.Recommend(context.Background(), EndpointRecommend, Request{LikedIDs: []int{1 + i%2}})
			if err != nil {
				t.Errorf("Recommend() error = %v", err)
				return
			}
			if len(got) != 1 {
				t.Errorf("len = %d, want 1", len(got))
			}
		}(i)
	}
	wg.Wait()
}

func TestRequestCanonical(t *testing.T) {
	t.Parallel()

	got := Request{
		LikedIDs: []int{3, 1, 3},
		Moods:    []string{" Dark ", "", "cozy", "DARK"},
		Query:    "  hi ",
	}.Canonical()

	if !equalInts(got.LikedIDs, []int{1, 3}) {
		t.Errorf("liked = %v", got.LikedIDs)
	}
	if got.DislikedIDs == nil || got.ExcludeIDs == nil {
		t.Error("empty id sets should canonicalize to empty slices")
	}
	if len(got.Moods) != 2 || got.Moods[0] != "cozy" || got.Moods[1] != "dark" {
		t.Errorf("moods = %v", got.Moods)
	}
	if got.Query != "hi" {
		t.Errorf("query = %q", got.Query)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative weight", func(c *Config) { c.Weights.Query = -0.1 }, true},
		{"negative penalty", func(c *Config) { c.DislikedPenalty = -1 }, true},
		{"threshold too high", func(c *Config) { c.FuzzyThreshold = 101 }, true},
		{"zero default limit", func(c *Config) { c.DefaultLimit = 0 }, true},
		{"max below default", func(c *Config) { c.MaxLimit = 5 }, true},
		{"weights not summing to one", func(c *Config) { c.Weights = Weights{Tag: 2, Liked: 2, Query: 2} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
