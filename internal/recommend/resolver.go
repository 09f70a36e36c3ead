// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/tomtom215/animerank/internal/catalog"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy title match.
const DefaultFuzzyThreshold = 80

// Resolver maps free-text title mentions to catalog ids.
//
// Each input is trimmed and lowercased. For every catalog item, an exact
// match against any of its lowercased titles selects the item; otherwise
// the item is selected when any title reaches the fuzzy threshold. The
// scan is linear in catalog size times titles per item.
type Resolver struct {
	threshold float64
}

// NewResolver creates a resolver. A threshold outside [0, 100] falls back
// to DefaultFuzzyThreshold.
func NewResolver(threshold float64) *Resolver {
	if threshold < 0 || threshold > 100 {
		threshold = DefaultFuzzyThreshold
	}
	return &Resolver{threshold: threshold}
}

// Resolve returns the ids matched by titles, de-duplicated, in order of
// first match. Blank inputs and inputs that match nothing are skipped.
func (r *Resolver) Resolve(snap *catalog.Snapshot, titles []string) []int {
	var ids []int
	seen := make(map[int]struct{})

	for _, raw := range titles {
		query := strings.ToLower(strings.TrimSpace(raw))
		if query == "" {
			continue
		}
		for _, it := range snap.Items() {
			if _, ok := seen[it.ID]; ok {
				continue
			}
			if r.matches(query, it) {
				seen[it.ID] = struct{}{}
				ids = append(ids, it.ID)
			}
		}
	}

	if ids == nil {
		return []int{}
	}
	return ids
}

func (r *Resolver) matches(query string, it *catalog.Item) bool {
	titles := lowerTitles(it)
	for _, t := range titles {
		if t == query {
			return true
		}
	}
	for _, t := range titles {
		if Similarity(query, t) >= r.threshold {
			return true
		}
	}
	return false
}

func lowerTitles(it *catalog.Item) []string {
	all := it.Titles()
	out := make([]string, 0, len(all))
	for _, t := range all {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Similarity returns the normalized indel similarity of a and b on a 0-100
// scale: 100 * 2 * LCS(a, b) / (len(a) + len(b)), with lengths in runes.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 100
	}
	return 100 * float64(2*edlib.LCS(a, b)) / float64(total)
}
