// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerank/internal/catalog"
)

func aggregatorSnapshot() *catalog.Snapshot {
	return newSnapshot(
		anime(1, "Attack on Titan", []string{"Action", "Dark Fantasy"}),
		anime(2, "Clannad", []string{"Drama", "Romance"}),
		anime(3, "K-On!", []string{"Comedy", "Music"}),
		anime(4, "Prison School", []string{"Comedy", "Ecchi"}, nsfwAnime()),
	)
}

func TestAggregateWithoutQuery(t *testing.T) {
	t.Parallel()

	ext := &fakeExtractor{}
	emb := &fakeEmbedder{vec: []float64{1}}
	agg := NewAggregator(ext, emb, NewResolver(80), zerolog.Nop())

	prefs, err := agg.Aggregate(context.Background(), Request{
		LikedIDs:    []int{2, 1, 2},
		DislikedIDs: []int{3},
		ExcludeIDs:  []int{4},
		Moods:       []string{" Cozy ", "cozy"},
		Limit:       5,
	}, aggregatorSnapshot())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if ext.calls.Load() != 0 || emb.calls.Load() != 0 {
		t.Errorf("collaborators called without a query: extract=%d embed=%d", ext.calls.Load(), emb.calls.Load())
	}
	if !equalInts(prefs.LikedIDs, []int{1, 2}) {
		t.Errorf("liked = %v, want [1 2]", prefs.LikedIDs)
	}
	if len(prefs.Exclude) != 4 {
		t.Errorf("exclude = %v, want liked, disliked and excluded ids", prefs.Exclude)
	}
	if len(prefs.Moods) != 1 || prefs.Moods[0] != "cozy" {
		t.Errorf("moods = %v, want [cozy]", prefs.Moods)
	}
	if prefs.SemanticQuery != "" || prefs.QueryEmbedding != nil {
		t.Errorf("unexpected semantic signal: %q %v", prefs.SemanticQuery, prefs.QueryEmbedding)
	}
	if prefs.Limit != 5 {
		t.Errorf("limit = %d, want 5", prefs.Limit)
	}
}

func TestAggregateMergesExtraction(t *testing.T) {
	t.Parallel()

	ext := &fakeExtractor{ext: Extraction{
		LikedTitles:    []string{"attack on titan"},
		DislikedTitles: []string{"Clanad"},
		MappedTags:     []string{"Music"},
		SemanticMoods:  []string{"upbeat", "friendship"},
	}}
	emb := &fakeEmbedder{vec: []float64{0.1, 0.2}}
	agg := NewAggregator(ext, emb, NewResolver(80), zerolog.Nop())

	prefs, err := agg.Aggregate(context.Background(), Request{
		LikedIDs: []int{3},
		Moods:    []string{"comedy"},
		Query:    "  something like attack on titan but not clannad  ",
	}, aggregatorSnapshot())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if ext.gotText != "something like attack on titan but not clannad" {
		t.Errorf("extractor text = %q, want trimmed query", ext.gotText)
	}
	for _, tag := range ext.gotKnown {
		if tag == "Ecchi" {
			t.Errorf("NSFW tag offered to extractor for a safe request: %v", ext.gotKnown)
		}
	}
	if !equalInts(prefs.LikedIDs, []int{1, 3}) {
		t.Errorf("liked = %v, want explicit 3 plus resolved 1", prefs.LikedIDs)
	}
	if !equalInts(prefs.DislikedIDs, []int{2}) {
		t.Errorf("disliked = %v, want resolved 2", prefs.DislikedIDs)
	}
	if len(prefs.Moods) != 2 || prefs.Moods[0] != "comedy" || prefs.Moods[1] != "music" {
		t.Errorf("moods = %v, want [comedy music]", prefs.Moods)
	}
	if prefs.SemanticQuery != "upbeat friendship" {
		t.Errorf("semantic query = %q, want %q", prefs.SemanticQuery, "upbeat friendship")
	}
	if emb.gotText != "upbeat friendship" || len(prefs.QueryEmbedding) != 2 {
		t.Errorf("embedded %q -> %v", emb.gotText, prefs.QueryEmbedding)
	}
}

func TestAggregateDegradesOnExtractorFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ext  *fakeExtractor
	}{
		{"extractor error", &fakeExtractor{err: errUpstream}},
		{"no mood phrases", &fakeExtractor{ext: Extraction{MappedTags: []string{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			emb := &fakeEmbedder{vec: []float64{1}}
			agg := NewAggregator(tt.ext, emb, nil, zerolog.Nop())

			prefs, err := agg.Aggregate(context.Background(), Request{Query: "cozy rainy day"}, aggregatorSnapshot())
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if prefs.SemanticQuery != "cozy rainy day" {
				t.Errorf("semantic query = %q, want the query text", prefs.SemanticQuery)
			}
			if emb.calls.Load() != 1 {
				t.Errorf("embed calls = %d, want 1", emb.calls.Load())
			}
		})
	}
}

func TestAggregateNilCollaborators(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(nil, nil, nil, zerolog.Nop())
	prefs, err := agg.Aggregate(context.Background(), Request{Query: "mecha"}, aggregatorSnapshot())
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if prefs.SemanticQuery != "mecha" {
		t.Errorf("semantic query = %q, want mecha", prefs.SemanticQuery)
	}
	if prefs.QueryEmbedding != nil {
		t.Errorf("query embedding = %v, want nil without an embedder", prefs.QueryEmbedding)
	}
}

func TestAggregateInvalidReference(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(nil, &fakeEmbedder{}, nil, zerolog.Nop())
	_, err := agg.Aggregate(context.Background(), Request{
		LikedIDs:    []int{1, 42},
		DislikedIDs: []int{7, 42},
		ExcludeIDs:  []int{999},
	}, aggregatorSnapshot())

	var invalid *InvalidReferenceError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *InvalidReferenceError", err)
	}
	if !equalInts(invalid.IDs, []int{7, 42}) {
		t.Errorf("ids = %v, want [7 42]", invalid.IDs)
	}
	if RejectReason(err) != "invalid_reference" {
		t.Errorf("RejectReason = %q", RejectReason(err))
	}
}

func TestAggregateEmbeddingFailure(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(nil, &fakeEmbedder{err: errUpstream}, nil, zerolog.Nop())
	_, err := agg.Aggregate(context.Background(), Request{Query: "space opera"}, aggregatorSnapshot())

	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("error = %v, want ErrExternalService", err)
	}
	if !errors.Is(err, errUpstream) {
		t.Errorf("error = %v, want the upstream cause preserved", err)
	}
	if RejectReason(err) != "embedding_failed" {
		t.Errorf("RejectReason = %q", RejectReason(err))
	}
}
