// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/events"
	"github.com/tomtom215/animerank/internal/logging"
)

const (
	// DefaultBatchSize is the number of rows per upsert.
	DefaultBatchSize = 50

	// DefaultEmbedBatchSize is the number of synopses per embedding call.
	DefaultEmbedBatchSize = 100

	// DefaultSource names the importer in catalog.updated events.
	DefaultSource = "ingest"
)

// BatchEmbedder embeds many texts in one call. *llm.Client implements it.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Publisher announces catalog changes. *events.Bus implements it.
type Publisher interface {
	Publish(ctx context.Context, evt *events.CatalogUpdated) error
}

// Deps groups the collaborators of an Importer. Only Store is required.
type Deps struct {
	Store     catalog.Store
	Embedder  BatchEmbedder
	Publisher Publisher
	Progress  ProgressTracker
}

// Options controls an ingest run.
type Options struct {
	BatchSize      int
	EmbedBatchSize int

	// SkipEmbed leaves rows without embeddings as they are.
	SkipEmbed bool

	// DryRun maps and embeds but writes nothing and publishes nothing.
	DryRun bool

	// Resume continues from saved progress when it matches the export.
	Resume bool

	Source string
}

// DefaultOptions returns the batch sizes of the reference ETL.
func DefaultOptions() Options {
	return Options{
		BatchSize:      DefaultBatchSize,
		EmbedBatchSize: DefaultEmbedBatchSize,
		Source:         DefaultSource,
	}
}

// Importer writes export records to the catalog store.
type Importer struct {
	store     catalog.Store
	embedder  BatchEmbedder
	publisher Publisher
	progress  ProgressTracker
	mapper    *Mapper
	opts      Options

	mu      sync.Mutex
	running bool
}

// NewImporter creates an importer.
func NewImporter(deps Deps, opts Options) (*Importer, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}

	defaults := DefaultOptions()
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}
	if opts.EmbedBatchSize <= 0 {
		opts.EmbedBatchSize = defaults.EmbedBatchSize
	}
	if opts.Source == "" {
		opts.Source = defaults.Source
	}

	progress := deps.Progress
	if progress == nil {
		progress = NewInMemoryProgress()
	}

	return &Importer{
		store:     deps.Store,
		embedder:  deps.Embedder,
		publisher: deps.Publisher,
		progress:  progress,
		mapper:    NewMapper(),
		opts:      opts,
	}, nil
}

// Import writes records to the store in batches and publishes a
// catalog.updated event when anything was written. A publish failure is
// logged, not returned: the rows are stored and servers pick them up on
// their next periodic refresh.
func (i *Importer) Import(ctx context.Context, records []Record) (*Stats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, fmt.Errorf("import already in progress")
	}
	i.running = true
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
	}()

	valid, skipped := i.mapper.FilterValidRecords(records)
	stats := &Stats{
		TotalRecords: len(records),
		Skipped:      skipped,
		Processed:    skipped,
		StartTime:    time.Now(),
		DryRun:       i.opts.DryRun,
	}
	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Msg("Skipping invalid or duplicate records")
	}

	offset := i.resumeOffset(ctx, valid, stats)

	logging.Info().
		Int("total_records", len(records)).
		Int("to_process", len(valid)-offset).
		Int("batch_size", i.opts.BatchSize).
		Bool("dry_run", i.opts.DryRun).
		Msg("Starting ingest")

	for start := offset; start < len(valid); start += i.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			stats.EndTime = time.Now()
			return stats, fmt.Errorf("ingest interrupted after %d records: %w", stats.Processed, err)
		}

		end := min(start+i.opts.BatchSize, len(valid))
		if err := i.processBatch(ctx, valid[start:end], stats); err != nil {
			stats.EndTime = time.Now()
			return stats, fmt.Errorf("batch starting at record %d: %w", valid[start].ID, err)
		}

		if !i.opts.DryRun {
			if err := i.progress.Save(ctx, stats); err != nil {
				logging.Warn().Err(err).Msg("Failed to save ingest progress")
			}
		}

		logging.Info().
			Int("processed", stats.Processed).
			Int("total", stats.TotalRecords).
			Float64("progress_pct", stats.Progress()).
			Float64("records_per_sec", stats.RecordsPerSecond()).
			Msg("Ingest progress")
	}

	stats.EndTime = time.Now()

	if !i.opts.DryRun {
		if err := i.progress.Clear(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to clear ingest progress")
		}
		i.publish(ctx, stats)
	}

	logging.Info().
		Int("upserted", stats.Upserted).
		Int("embedded", stats.Embedded).
		Int("nsfw_derived", stats.NSFWDerived).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration()).
		Bool("published", stats.Published).
		Msg("Ingest completed")

	return stats, nil
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running
}

// resumeOffset returns the index of the first valid record to process.
// Saved progress is honored only when it was taken from the same export:
// same record count, and the last processed id sits where it should.
func (i *Importer) resumeOffset(ctx context.Context, valid []Record, stats *Stats) int {
	if !i.opts.Resume {
		return 0
	}

	saved, err := i.progress.Load(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to load ingest progress, starting over")
		return 0
	}
	if saved == nil {
		return 0
	}

	offset := saved.Processed - saved.Skipped
	if saved.TotalRecords != stats.TotalRecords || offset <= 0 || offset > len(valid) ||
		valid[offset-1].ID != saved.LastProcessedID {
		logging.Warn().
			Int("saved_total", saved.TotalRecords).
			Int("saved_last_id", saved.LastProcessedID).
			Msg("Saved ingest progress does not match this export, starting over")
		return 0
	}

	stats.Processed = saved.Processed
	stats.Upserted = saved.Upserted
	stats.Embedded = saved.Embedded
	stats.NSFWDerived = saved.NSFWDerived
	stats.Batches = saved.Batches
	stats.LastProcessedID = saved.LastProcessedID

	logging.Info().Int("start_id", valid[min(offset, len(valid)-1)].ID).Int("offset", offset).Msg("Resuming ingest")
	return offset
}

func (i *Importer) processBatch(ctx context.Context, batch []Record, stats *Stats) error {
	rows, derived := i.mapper.ToRows(batch)

	embedded, err := i.embedMissing(ctx, rows)
	if err != nil {
		return err
	}

	if !i.opts.DryRun {
		if err := i.store.Upsert(ctx, rows); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		stats.Upserted += len(rows)
	}

	stats.Processed += len(batch)
	stats.Embedded += embedded
	stats.NSFWDerived += derived
	stats.Batches++
	stats.LastProcessedID = batch[len(batch)-1].ID
	return nil
}

// embedMissing fills the embedding of every row that has none and returns
// how many were filled.
func (i *Importer) embedMissing(ctx context.Context, rows []catalog.RawRow) (int, error) {
	if i.embedder == nil || i.opts.SkipEmbed {
		return 0, nil
	}

	var missing []int
	for idx := range rows {
		if len(rows[idx].Embedding) == 0 {
			missing = append(missing, idx)
		}
	}

	for start := 0; start < len(missing); start += i.opts.EmbedBatchSize {
		chunk := missing[start:min(start+i.opts.EmbedBatchSize, len(missing))]

		texts := make([]string, len(chunk))
		for j, idx := range chunk {
			texts[j] = EmbeddingText(&rows[idx])
		}

		vecs, err := i.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed synopses: %w", err)
		}
		if len(vecs) != len(chunk) {
			return 0, fmt.Errorf("embed synopses: got %d vectors for %d texts", len(vecs), len(chunk))
		}
		for j, idx := range chunk {
			rows[idx].Embedding = vecs[j]
		}
	}
	return len(missing), nil
}

func (i *Importer) publish(ctx context.Context, stats *Stats) {
	if i.publisher == nil || stats.Upserted == 0 {
		return
	}
	if err := i.publisher.Publish(ctx, events.NewCatalogUpdated(i.opts.Source, stats.Upserted)); err != nil {
		logging.Warn().Err(err).Msg("Failed to publish catalog update; servers will reload on their next refresh")
		return
	}
	stats.Published = true
}
