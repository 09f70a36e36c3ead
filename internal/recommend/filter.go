// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import "github.com/tomtom215/animerank/internal/catalog"

// FilterCandidates returns the items, in catalog order, that are not in
// exclude and are either safe for work or allowed by nsfwOK.
func FilterCandidates(items []*catalog.Item, exclude map[int]struct{}, nsfwOK bool) []*catalog.Item {
	filtered := make([]*catalog.Item, 0, len(items))
	for _, it := range items {
		if _, excluded := exclude[it.ID]; excluded {
			continue
		}
		if it.IsNSFW && !nsfwOK {
			continue
		}
		filtered = append(filtered, it)
	}
	return filtered
}

// buildExclusionSet unions the given id lists.
func buildExclusionSet(lists ...[]int) map[int]struct{} {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	exclude := make(map[int]struct{}, n)
	for _, l := range lists {
		for _, id := range l {
			exclude[id] = struct{}{}
		}
	}
	return exclude
}
