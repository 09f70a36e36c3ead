// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"sort"
	"strings"
	"time"
)

// Snapshot is an immutable, ordered view of the catalog. A new snapshot
// is built on every refresh and published atomically; readers keep the
// one they started with for the whole request.
type Snapshot struct {
	items    []*Item
	byID     map[int]*Item
	nsfwTags TagSet
	loadedAt time.Time
	version  string
}

// Metadata summarizes a snapshot.
type Metadata struct {
	TotalEntries int        `json:"total_entries"`
	LastUpdated  *time.Time `json:"last_updated"`
}

// NewSnapshot builds a snapshot over items in the given order. When two
// items share an id the first one wins.
func NewSnapshot(items []*Item, nsfwTags TagSet, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		items:    make([]*Item, 0, len(items)),
		byID:     make(map[int]*Item, len(items)),
		nsfwTags: nsfwTags,
		loadedAt: loadedAt,
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, dup := s.byID[it.ID]; dup {
			continue
		}
		s.byID[it.ID] = it
		s.items = append(s.items, it)
	}
	s.version = fingerprint(s.items, nsfwTags)
	return s
}

// Items returns the items in catalog order. Callers must not modify the
// slice or the items.
func (s *Snapshot) Items() []*Item {
	return s.items
}

// Len returns the number of items.
func (s *Snapshot) Len() int {
	return len(s.items)
}

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Version identifies the snapshot content. It changes whenever anything a
// ranking or catalog view can observe changes, and is part of every cache
// key so entries computed from a replaced snapshot are never served.
func (s *Snapshot) Version() string {
	return s.version
}

// NSFWTags returns the tag set hidden from the vocabulary unless NSFW
// content is allowed.
func (s *Snapshot) NSFWTags() TagSet {
	return s.nsfwTags
}

// ByID returns the item with the given id.
func (s *Snapshot) ByID(id int) (*Item, bool) {
	it, ok := s.byID[id]
	return it, ok
}

// Contains reports whether id exists in the snapshot.
func (s *Snapshot) Contains(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// Lookup returns the items for ids in the given order, skipping unknown ids.
func (s *Snapshot) Lookup(ids []int) []*Item {
	out := make([]*Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := s.byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Vocabulary returns the distinct tags of the catalog, one display
// spelling per lowercase key (the first seen in catalog order), sorted
// case-insensitively. NSFW tags are left out unless nsfwOK.
func (s *Snapshot) Vocabulary(nsfwOK bool) []string {
	spelling := make(map[string]string)
	for _, it := range s.items {
		for _, display := range it.DisplayTags {
			lower := strings.ToLower(display)
			if !nsfwOK && s.nsfwTags.Contains(lower) {
				continue
			}
			if _, ok := spelling[lower]; !ok {
				spelling[lower] = display
			}
		}
	}

	tags := make([]string, 0, len(spelling))
	for _, display := range spelling {
		tags = append(tags, display)
	}
	sort.Slice(tags, func(i, j int) bool {
		li, lj := strings.ToLower(tags[i]), strings.ToLower(tags[j])
		if li != lj {
			return li < lj
		}
		return tags[i] < tags[j]
	})
	return tags
}

// Metadata returns the item count and the most recent LastUpdated, which
// is nil when no item carries a timestamp.
func (s *Snapshot) Metadata() Metadata {
	md := Metadata{TotalEntries: len(s.items)}
	for _, it := range s.items {
		if it.LastUpdated == nil {
			continue
		}
		if md.LastUpdated == nil || it.LastUpdated.After(*md.LastUpdated) {
			t := *it.LastUpdated
			md.LastUpdated = &t
		}
	}
	return md
}

// Search finds items whose primary or alternate title contains q, ignoring
// case. Items with a title starting with q come first, then the remaining
// substring matches, each group in catalog order. NSFW items are skipped
// unless nsfwOK. A blank q yields no results; limit <= 0 means no limit.
func (s *Snapshot) Search(q string, limit int, nsfwOK bool) []*Item {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return []*Item{}
	}

	var prefix, substring []*Item
	for _, it := range s.items {
		if it.IsNSFW && !nsfwOK {
			continue
		}
		switch matchTitles(it, q) {
		case matchPrefix:
			prefix = append(prefix, it)
		case matchSubstring:
			substring = append(substring, it)
		}
	}

	results := append(prefix, substring...)
	if results == nil {
		results = []*Item{}
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

type titleMatch int

const (
	matchNone titleMatch = iota
	matchSubstring
	matchPrefix
)

func matchTitles(it *Item, q string) titleMatch {
	best := matchNone
	for _, title := range it.Titles() {
		lower := strings.ToLower(title)
		if strings.HasPrefix(lower, q) {
			return matchPrefix
		}
		if strings.Contains(lower, q) {
			best = matchSubstring
		}
	}
	return best
}
