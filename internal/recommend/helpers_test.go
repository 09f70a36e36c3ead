// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tomtom215/animerank/internal/catalog"
)

var testLoadedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type animeOpt func(*catalog.RawRow)

func withEmbedding(vec ...float64) animeOpt {
	return func(r *catalog.RawRow) { r.Embedding = vec }
}

func withAlternates(titles ...string) animeOpt {
	return func(r *catalog.RawRow) { r.AllTitles = titles }
}

func nsfwAnime() animeOpt {
	return func(r *catalog.RawRow) {
		v := true
		r.IsNSFW = &v
	}
}

func anime(id int, title string, tags []string, opts ...animeOpt) *catalog.Item {
	row := catalog.RawRow{ID: id, Title: &title, Tags: tags}
	for _, opt := range opts {
		opt(&row)
	}
	return catalog.NormalizeRow(row, 0)
}

func newSnapshot(items ...*catalog.Item) *catalog.Snapshot {
	return catalog.NewSnapshot(items, catalog.NewTagSet([]string{"hentai", "ecchi"}), testLoadedAt)
}

type staticSource struct {
	snap *catalog.Snapshot
}

func (s staticSource) Current() *catalog.Snapshot { return s.snap }

// swapSource publishes snapshots the way catalog.Refresher does.
type swapSource struct {
	current atomic.Pointer[catalog.Snapshot]
}

func (s *swapSource) Current() *catalog.Snapshot { return s.current.Load() }

// gatedEmbedder parks its first call until release is closed.
type gatedEmbedder struct {
	vec     []float64
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newGatedEmbedder(vec ...float64) *gatedEmbedder {
	return &gatedEmbedder{vec: vec, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	if g.calls.Add(1) == 1 {
		close(g.started)
		<-g.release
	}
	return g.vec, nil
}

type fakeExtractor struct {
	ext      Extraction
	err      error
	calls    atomic.Int32
	gotText  string
	gotNSFW  bool
	gotKnown []string
}

func (f *fakeExtractor) Extract(_ context.Context, text string, nsfwOK bool, knownTags []string) (Extraction, error) {
	f.calls.Add(1)
	f.gotText = text
	f.gotNSFW = nsfwOK
	f.gotKnown = knownTags
	if f.err != nil {
		return Extraction{}, f.err
	}
	return f.ext, nil
}

type fakeEmbedder struct {
	vec     []float64
	err     error
	calls   atomic.Int32
	gotText string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls.Add(1)
	f.gotText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

var errUpstream = errors.New("upstream unavailable")

func resultIDs(results []ScoredResult) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.Anime.ID
	}
	return ids
}

func rankedIDs(ranked []Ranked) []int {
	ids := make([]int, len(ranked))
	for i, r := range ranked {
		ids[i] = r.Item.ID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
