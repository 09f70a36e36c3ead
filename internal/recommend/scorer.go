// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/animerank/internal/catalog"
)

// ScoreInput is everything one scoring pass reads.
type ScoreInput struct {
	// Candidates in catalog order. Ties in the output keep this order.
	Candidates []*catalog.Item

	Liked    []*catalog.Item
	Disliked []*catalog.Item

	// Moods are matched against candidate tags ignoring case.
	Moods []string

	// QueryEmbedding may be nil, in which case query similarity is 0.
	QueryEmbedding []float64

	Weights Weights
}

// Scorer blends tag overlap, liked-item similarity and query similarity
// into one normalized score per candidate.
type Scorer struct {
	penalty float64
	boost   float64
}

// NewScorer creates a scorer with the given disliked-tag penalty and mood
// boost.
func NewScorer(penalty, boost float64) *Scorer {
	return &Scorer{penalty: penalty, boost: boost}
}

// Score ranks the candidates. Candidates without tags, and candidates whose
// blended score is not strictly positive, are dropped. Surviving scores are
// divided by the maximum so the best candidate scores 1, rounded to 4
// decimals, and sorted descending. The sort is stable so equal scores keep
// catalog order.
//
// Embeddings of different lengths are an error.
func (s *Scorer) Score(in ScoreInput) ([]Ranked, error) {
	likedPool := tagPool(in.Liked)
	dislikedPool := tagPool(in.Disliked)
	moods := make(map[string]struct{}, len(in.Moods))
	for _, m := range in.Moods {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			moods[m] = struct{}{}
		}
	}

	likedVecs := make([][]float64, 0, len(in.Liked))
	for _, it := range in.Liked {
		if it.HasEmbedding() {
			likedVecs = append(likedVecs, it.Embedding)
		}
	}
	likedMean, err := meanVector(likedVecs)
	if err != nil {
		return nil, fmt.Errorf("liked embeddings: %w", err)
	}

	ranked := make([]Ranked, 0, len(in.Candidates))
	maxScore := 0.0

	for _, c := range in.Candidates {
		if len(c.Tags) == 0 {
			continue
		}
		tags := c.TagSet()

		overlap := intersect(likedPool, tags)
		tagScore := 0.0
		if len(likedPool) > 0 {
			tagScore = float64(len(overlap)) / float64(len(likedPool))
		}
		tagScore -= s.penalty * float64(len(intersect(dislikedPool, tags)))
		tagScore += s.boost * float64(len(intersect(moods, tags)))

		var likedSim, querySim float64
		if likedMean != nil && c.HasEmbedding() {
			if likedSim, err = cosineSimilarity(likedMean, c.Embedding); err != nil {
				return nil, fmt.Errorf("anime %d liked similarity: %w", c.ID, err)
			}
		}
		if len(in.QueryEmbedding) > 0 && c.HasEmbedding() {
			if querySim, err = cosineSimilarity(in.QueryEmbedding, c.Embedding); err != nil {
				return nil, fmt.Errorf("anime %d query similarity: %w", c.ID, err)
			}
		}

		raw := tagScore*in.Weights.Tag + likedSim*in.Weights.Liked + querySim*in.Weights.Query
		if raw <= 0 {
			continue
		}
		if raw > maxScore {
			maxScore = raw
		}

		sort.Strings(overlap)
		ranked = append(ranked, Ranked{Item: c, Score: raw, OverlapTags: overlap})
	}

	if maxScore > 0 {
		for i := range ranked {
			ranked[i].Score = round4(ranked[i].Score / maxScore)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}

func tagPool(items []*catalog.Item) map[string]struct{} {
	pool := make(map[string]struct{})
	for _, it := range items {
		for _, t := range it.Tags {
			pool[t] = struct{}{}
		}
	}
	return pool
}

// intersect returns the members of a that are also in b, unordered.
func intersect(a, b map[string]struct{}) []string {
	if len(a) > len(b) {
		a, b = b, a
	}
	out := make([]string, 0)
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
