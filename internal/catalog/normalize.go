// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/metrics"
)

// RawRow is a catalog row as stored. Every field except ID may be missing
// or malformed; NormalizeRow turns it into an Item. The JSON tags match
// the offline export consumed by cmd/ingest.
type RawRow struct {
	ID            int             `json:"id"`
	Title         *string         `json:"title"`
	AllTitles     []string        `json:"all_titles"`
	MainPicture   json.RawMessage `json:"main_picture"`
	Tags          []string        `json:"tags"`
	Synopsis      *string         `json:"synopsis"`
	Rating        *string         `json:"rating"`
	IsNSFW        *bool           `json:"is_nsfw"`
	TotalEpisodes *int            `json:"total_episodes"`
	ChildrenIDs   []int           `json:"children_ids"`
	LastUpdated   *time.Time      `json:"last_updated"`
	Embedding     []float64       `json:"embedding"`
}

// NormalizeRow builds an Item from a stored row. Malformed fields are
// replaced with neutral defaults rather than rejected:
//   - a blank title falls back to the first alternate title, then to
//     "Untitled #<id>"
//   - blank and duplicate alternate titles are dropped
//   - tags are trimmed and lowercased, keeping the first spelling seen
//   - an embedding of the wrong length or with non-finite values is dropped
//   - a negative episode count becomes 0
//
// embedDim <= 0 accepts embeddings of any length.
func NormalizeRow(row RawRow, embedDim int) *Item {
	it := &Item{
		ID:          row.ID,
		Synopsis:    row.Synopsis,
		Rating:      row.Rating,
		ChildrenIDs: row.ChildrenIDs,
		LastUpdated: row.LastUpdated,
	}

	it.AlternateTitles = dedupeStrings(row.AllTitles)
	it.Title = normalizeTitle(row.ID, row.Title, it.AlternateTitles)

	it.Tags, it.DisplayTags = normalizeTags(row.Tags)
	it.tagSet = make(map[string]struct{}, len(it.Tags))
	for _, t := range it.Tags {
		it.tagSet[t] = struct{}{}
	}

	if row.IsNSFW != nil {
		it.IsNSFW = *row.IsNSFW
	}
	if row.TotalEpisodes != nil && *row.TotalEpisodes > 0 {
		it.TotalEpisodes = *row.TotalEpisodes
	}

	it.MainPicture = parsePicture(row.ID, row.MainPicture)
	it.Embedding = checkEmbedding(row.ID, row.Embedding, embedDim)

	return it
}

func normalizeTitle(id int, title *string, alternates []string) string {
	if title != nil {
		if t := strings.TrimSpace(*title); t != "" {
			return t
		}
	}
	metrics.CatalogRowsNormalized.WithLabelValues("title").Inc()
	if len(alternates) > 0 {
		return alternates[0]
	}
	return fmt.Sprintf("Untitled #%d", id)
}

// dedupeStrings trims values and drops blanks and repeats, keeping order.
func dedupeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
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

// normalizeTags returns the lowercase tags and their first-seen display
// spellings, both in order of first appearance.
func normalizeTags(raw []string) (tags, display []string) {
	tags = make([]string, 0, len(raw))
	display = make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		clean := strings.TrimSpace(t)
		if clean == "" {
			continue
		}
		lower := strings.ToLower(clean)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		tags = append(tags, lower)
		display = append(display, clean)
	}
	return tags, display
}

func parsePicture(id int, raw json.RawMessage) *Picture {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var p Picture
	if err := json.Unmarshal(raw, &p); err != nil {
		metrics.CatalogRowsNormalized.WithLabelValues("main_picture").Inc()
		logging.Debug().Int("anime_id", id).Err(err).Msg("Dropping malformed main_picture")
		return nil
	}
	if p.Medium == "" && p.Large == "" {
		return nil
	}
	return &p
}

func checkEmbedding(id int, vec []float64, dim int) []float64 {
	if len(vec) == 0 {
		return nil
	}
	if dim > 0 && len(vec) != dim {
		metrics.CatalogRowsNormalized.WithLabelValues("embedding").Inc()
		logging.Warn().
			Int("anime_id", id).
			Int("got_dim", len(vec)).
			Int("want_dim", dim).
			Msg("Dropping embedding with unexpected dimension")
		return nil
	}
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			metrics.CatalogRowsNormalized.WithLabelValues("embedding").Inc()
			logging.Warn().Int("anime_id", id).Msg("Dropping embedding with non-finite values")
			return nil
		}
	}
	return vec
}
