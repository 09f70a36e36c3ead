// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/animerank/internal/catalog"
)

// MatchNote explains how every ranked result was scored.
const MatchNote = "Matched using tag overlap, liked anime similarity, and query similarity."

// Request is a ranking request as received from a caller.
type Request struct {
	LikedIDs    []int    `json:"liked_ids"`
	DislikedIDs []int    `json:"disliked_ids"`
	ExcludeIDs  []int    `json:"exclude_ids"`
	Moods       []string `json:"moods"`
	NSFWOk      bool     `json:"nsfw_ok"`
	Limit       int      `json:"limit"`
	Query       string   `json:"query"`
}

// Canonical returns an equivalent request in normal form: id sets sorted
// and de-duplicated, moods trimmed, lowercased, sorted and de-duplicated,
// query trimmed. Two requests that rank identically have equal canonical
// forms, which makes the canonical form usable as a cache fingerprint.
func (r Request) Canonical() Request {
	return Request{
		LikedIDs:    uniqueSortedIDs(r.LikedIDs),
		DislikedIDs: uniqueSortedIDs(r.DislikedIDs),
		ExcludeIDs:  uniqueSortedIDs(r.ExcludeIDs),
		Moods:       normalizeMoods(r.Moods),
		NSFWOk:      r.NSFWOk,
		Limit:       r.Limit,
		Query:       strings.TrimSpace(r.Query),
	}
}

// Preferences is the scoring input derived from a Request after free-text
// extraction, title resolution and validation.
type Preferences struct {
	LikedIDs    []int
	DislikedIDs []int

	// Exclude is liked ∪ disliked ∪ explicit excludes.
	Exclude map[int]struct{}

	// Moods is the lowercase union of requested moods and tags mapped from
	// free text.
	Moods []string

	// SemanticQuery is empty when no free text was given.
	SemanticQuery  string
	QueryEmbedding []float64

	NSFWOk bool
	Limit  int
}

// Ranked is one scored candidate before projection for display.
type Ranked struct {
	Item        *catalog.Item
	Score       float64
	OverlapTags []string
}

// Reason explains a ranked result.
type Reason struct {
	OverlapTags []string `json:"overlap_tags"`
	Note        string   `json:"note"`
}

// ScoredResult is one entry of a ranking response.
type ScoredResult struct {
	Anime  catalog.Summary `json:"anime"`
	Score  float64         `json:"score"`
	Reason Reason          `json:"reason"`
}

// Extraction is the structured reading of a free-text query.
type Extraction struct {
	LikedTitles    []string `json:"liked_titles"`
	DislikedTitles []string `json:"disliked_titles"`
	MappedTags     []string `json:"mapped_tags"`
	SemanticMoods  []string `json:"semantic_moods"`
}

// DegradedExtraction is the extraction used when the extractor fails or
// returns something unusable: no titles, no tags, and the whole text as
// the only mood phrase.
func DegradedExtraction(text string) Extraction {
	return Extraction{
		LikedTitles:    []string{},
		DislikedTitles: []string{},
		MappedTags:     []string{},
		SemanticMoods:  []string{text},
	}
}

func uniqueSortedIDs(ids []int) []int {
	if len(ids) == 0 {
		return []int{}
	}
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func normalizeMoods(moods []string) []string {
	out := make([]string, 0, len(moods))
	seen := make(map[string]struct{}, len(moods))
	for _, m := range moods {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
