// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package ingest

import (
	"time"
)

// Stats holds statistics about an ingest run.
type Stats struct {
	// TotalRecords is the number of records read from the export.
	TotalRecords int `json:"total_records"`

	// Processed is the number of records handled, skipped ones included.
	Processed int `json:"processed"`

	// Upserted is the number of rows written to the store.
	Upserted int `json:"upserted"`

	// Skipped is the number of records rejected by validation.
	Skipped int `json:"skipped"`

	// Embedded is the number of synopses embedded during the run.
	Embedded int `json:"embedded"`

	// NSFWDerived is the number of rows whose is_nsfw flag was derived.
	NSFWDerived int `json:"nsfw_derived"`

	// Batches is the number of upsert batches completed.
	Batches int `json:"batches"`

	// LastProcessedID is the id of the last record of the last batch.
	LastProcessedID int `json:"last_processed_id"`

	// Published reports whether the catalog.updated event went out.
	Published bool `json:"published"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// DryRun indicates that nothing was written.
	DryRun bool `json:"dry_run"`
}

// Duration returns the duration of the run.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the run progress as a percentage (0-100).
func (s *Stats) Progress() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.TotalRecords) * 100
}

// RecordsPerSecond returns the processing rate.
func (s *Stats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}
