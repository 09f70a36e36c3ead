// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"sort"
	"strings"
)

// TagSet is an immutable case-insensitive set of tags. The NSFW tag set
// is built once from configuration and shared by the snapshot vocabulary,
// the API and the preference extractor.
type TagSet struct {
	m map[string]struct{}
}

// NewTagSet builds a set from tags, lowercasing and trimming each entry.
// Blank entries are ignored.
func NewTagSet(tags []string) TagSet {
	m := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			m[t] = struct{}{}
		}
	}
	return TagSet{m: m}
}

// Contains reports whether tag is in the set, ignoring case.
func (s TagSet) Contains(tag string) bool {
	_, ok := s.m[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// Len returns the number of tags in the set.
func (s TagSet) Len() int {
	return len(s.m)
}

// List returns the tags in sorted order.
func (s TagSet) List() []string {
	out := make([]string, 0, len(s.m))
	for t := range s.m {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
