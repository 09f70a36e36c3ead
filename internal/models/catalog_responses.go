// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package models

import "time"

// TagsResponse lists the tag vocabulary.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// CatalogMetadata summarizes the loaded catalog.
type CatalogMetadata struct {
	TotalEntries int        `json:"total_entries"`
	LastUpdated  *time.Time `json:"last_updated"`
}

// ConfigResponse is what the frontend needs to build its filters.
type ConfigResponse struct {
	Tags         []string   `json:"tags"`
	TotalEntries int        `json:"total_entries"`
	LastUpdated  *time.Time `json:"last_updated"`
}

// HealthResponse reports liveness and snapshot state.
type HealthResponse struct {
	OK               bool       `json:"ok"`
	CatalogItems     int        `json:"catalog_items"`
	SnapshotLoadedAt *time.Time `json:"snapshot_loaded_at"`
	Version          string     `json:"version,omitempty"`
}

// RefreshResponse reports an admin-triggered reload.
type RefreshResponse struct {
	CatalogItems        int       `json:"catalog_items"`
	SnapshotLoadedAt    time.Time `json:"snapshot_loaded_at"`
	CacheEntriesCleared int       `json:"cache_entries_cleared"`
}
