// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"testing"

	"github.com/tomtom215/animerank/internal/catalog"
)

func TestFilterCandidates(t *testing.T) {
	t.Parallel()

	items := []*catalog.Item{
		anime(1, "One", []string{"action"}),
		anime(2, "Two", []string{"ecchi"}, nsfwAnime()),
		anime(3, "Three", []string{"drama"}),
		anime(4, "Four", []string{"romance"}),
	}

	tests := []struct {
		name    string
		exclude map[int]struct{}
		nsfwOK  bool
		want    []int
	}{
		{"nsfw hidden by default", nil, false, []int{1, 3, 4}},
		{"nsfw allowed", nil, true, []int{1, 2, 3, 4}},
		{"exclusions applied", buildExclusionSet([]int{1}, []int{4}), true, []int{2, 3}},
		{"exclusions and nsfw", buildExclusionSet([]int{3}), false, []int{1, 4}},
		{"unknown exclusion ignored", buildExclusionSet([]int{99}), false, []int{1, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FilterCandidates(items, tt.exclude, tt.nsfwOK)
			ids := make([]int, len(got))
			for i, it := range got {
				ids[i] = it.ID
			}
			if !equalInts(ids, tt.want) {
				t.Errorf("FilterCandidates() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestBuildExclusionSet(t *testing.T) {
	t.Parallel()

	set := buildExclusionSet([]int{1, 2}, nil, []int{2, 3})
	if len(set) != 3 {
		t.Fatalf("len = %d, want 3", len(set))
	}
	for _, id := range []int{1, 2, 3} {
		if _, ok := set[id]; !ok {
			t.Errorf("missing id %d", id)
		}
	}
}
