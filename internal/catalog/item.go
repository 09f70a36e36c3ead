// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"strings"
	"time"
)

// Picture holds the cover image URLs of an item.
type Picture struct {
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// Item is one catalog entry. Items are built once by NormalizeRow when a
// snapshot loads and are read-only afterwards.
type Item struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	AlternateTitles []string   `json:"all_titles"`
	MainPicture     *Picture   `json:"main_picture"`
	Tags            []string   `json:"tags"`
	Synopsis        *string    `json:"synopsis"`
	Rating          *string    `json:"rating"`
	IsNSFW          bool       `json:"is_nsfw"`
	TotalEpisodes   int        `json:"total_episodes"`
	ChildrenIDs     []int      `json:"children_ids"`
	LastUpdated     *time.Time `json:"last_updated"`

	// DisplayTags holds the stripped original spelling of each tag,
	// parallel to Tags.
	DisplayTags []string `json:"-"`

	// Embedding is nil when the synopsis was never embedded or the stored
	// vector was unusable.
	Embedding []float64 `json:"-"`

	tagSet map[string]struct{}
}

// HasTag reports whether the item carries tag, ignoring case.
func (it *Item) HasTag(tag string) bool {
	_, ok := it.tagSet[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// TagSet returns the lowercase tag set. Callers must not modify it.
func (it *Item) TagSet() map[string]struct{} {
	return it.tagSet
}

// HasEmbedding reports whether the item has a usable embedding.
func (it *Item) HasEmbedding() bool {
	return len(it.Embedding) > 0
}

// Titles returns the primary title followed by the alternate titles.
func (it *Item) Titles() []string {
	titles := make([]string, 0, 1+len(it.AlternateTitles))
	if it.Title != "" {
		titles = append(titles, it.Title)
	}
	return append(titles, it.AlternateTitles...)
}

// Summary is the display projection of an item returned with search and
// ranking results.
type Summary struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	AlternateTitles []string `json:"all_titles"`
	MainPicture     *Picture `json:"main_picture"`
	Tags            []string `json:"tags"`
	Synopsis        *string  `json:"synopsis"`
	Rating          *string  `json:"rating"`
	IsNSFW          bool     `json:"is_nsfw"`
	TotalEpisodes   int      `json:"total_episodes"`
}

// Summary projects the item for display. Tags keep their stored spelling.
func (it *Item) Summary() Summary {
	return Summary{
		ID:              it.ID,
		Title:           it.Title,
		AlternateTitles: it.AlternateTitles,
		MainPicture:     it.MainPicture,
		Tags:            it.displayTags(),
		Synopsis:        it.Synopsis,
		Rating:          it.Rating,
		IsNSFW:          it.IsNSFW,
		TotalEpisodes:   it.TotalEpisodes,
	}
}

// Detail is the full display form of an item returned by the item lookup.
type Detail struct {
	Summary
	ChildrenIDs []int      `json:"children_ids"`
	LastUpdated *time.Time `json:"last_updated"`
}

// Detail projects every stored field except the embedding.
func (it *Item) Detail() Detail {
	return Detail{
		Summary:     it.Summary(),
		ChildrenIDs: it.ChildrenIDs,
		LastUpdated: it.LastUpdated,
	}
}

// displayTags falls back to the lowercase tags for items that were not
// built by NormalizeRow.
func (it *Item) displayTags() []string {
	if len(it.DisplayTags) == len(it.Tags) {
		return it.DisplayTags
	}
	return it.Tags
}
