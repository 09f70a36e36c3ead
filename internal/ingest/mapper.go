// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package ingest

import (
	"fmt"
	"strings"

	"github.com/tomtom215/animerank/internal/catalog"
)

// Record is one entry of an anime_data.json export.
type Record struct {
	catalog.RawRow

	// Genres and Themes are raw labels from the upstream metadata. They
	// feed NSFW derivation and stand in for tags when tags are absent.
	Genres []string `json:"genres,omitempty"`
	Themes []string `json:"themes,omitempty"`
}

// nsfwRatings are rating fragments that mark a title as adult.
var nsfwRatings = []string{"r+", "rx"}

// nsfwLabels are genres and themes that mark a title as adult.
var nsfwLabels = map[string]struct{}{
	"hentai":         {},
	"ecchi":          {},
	"sexual content": {},
	"adult cast":     {},
}

// Mapper converts export records to catalog rows.
type Mapper struct{}

// NewMapper creates a new record mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToRow converts a record to a catalog row. derived reports whether the
// is_nsfw flag had to be computed.
func (m *Mapper) ToRow(rec *Record) (row catalog.RawRow, derived bool) {
	row = rec.RawRow

	tags := row.Tags
	if len(tags) == 0 {
		tags = rec.Genres
	}
	row.Tags = lowerUnique(tags)
	row.AllTitles = dedupeTitles(row.AllTitles)

	if row.TotalEpisodes == nil {
		zero := 0
		row.TotalEpisodes = &zero
	}

	if row.IsNSFW == nil {
		nsfw := DeriveNSFW(row.Rating, rec.Genres, rec.Themes, row.Tags)
		row.IsNSFW = &nsfw
		derived = true
	}
	return row, derived
}

// ToRows converts a batch of records and returns the number of derived
// NSFW flags.
func (m *Mapper) ToRows(records []Record) (rows []catalog.RawRow, derived int) {
	rows = make([]catalog.RawRow, len(records))
	for i := range records {
		var d bool
		rows[i], d = m.ToRow(&records[i])
		if d {
			derived++
		}
	}
	return rows, derived
}

// ValidateRecord checks if a record has the fields required for import.
func (m *Mapper) ValidateRecord(rec *Record) error {
	if rec.ID <= 0 {
		return fmt.Errorf("invalid id: %d", rec.ID)
	}
	for _, child := range rec.ChildrenIDs {
		if child <= 0 {
			return fmt.Errorf("record %d: invalid child id %d", rec.ID, child)
		}
	}
	return nil
}

// FilterValidRecords filters out invalid records and returns valid ones.
// Also returns a count of skipped records.
func (m *Mapper) FilterValidRecords(records []Record) (valid []Record, skipped int) {
	seen := make(map[int]struct{}, len(records))
	for i := range records {
		if err := m.ValidateRecord(&records[i]); err != nil {
			skipped++
			continue
		}
		// A later duplicate wins at upsert time anyway; keep the first.
		if _, dup := seen[records[i].ID]; dup {
			skipped++
			continue
		}
		seen[records[i].ID] = struct{}{}
		valid = append(valid, records[i])
	}
	return valid, skipped
}

// DeriveNSFW reports whether a title is adult content from its rating and
// any number of label lists (genres, themes, tags).
func DeriveNSFW(rating *string, labels ...[]string) bool {
	if rating != nil {
		r := strings.ToLower(*rating)
		for _, frag := range nsfwRatings {
			if strings.Contains(r, frag) {
				return true
			}
		}
	}
	for _, list := range labels {
		for _, label := range list {
			if _, ok := nsfwLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
				return true
			}
		}
	}
	return false
}

// EmbeddingText is the text embedded for a row.
func EmbeddingText(row *catalog.RawRow) string {
	if row.Synopsis == nil || strings.TrimSpace(*row.Synopsis) == "" {
		return "N/A"
	}
	return *row.Synopsis
}

func lowerUnique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dedupeTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	seen := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
