// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

// Command ingest loads an anime_data.json export into the catalog store and
// tells running servers to reload.
//
// Usage:
//
//	ingest -file anime_data.json
//	ingest -file anime_data.json -skip-embed -dry-run
//	ingest -file anime_data.json -progress-path /var/lib/animerank/ingest -resume
//
// The store, language model and event bus come from the same
// configuration as the server (DATABASE_URL, OPENAI_API_KEY, NATS_URL, ...).
// Rows without an embedding are embedded when LLM_ENABLED is true, unless
// -skip-embed is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/config"
	"github.com/tomtom215/animerank/internal/events"
	"github.com/tomtom215/animerank/internal/ingest"
	"github.com/tomtom215/animerank/internal/llm"
	"github.com/tomtom215/animerank/internal/logging"
)

type flags struct {
	file         string
	skipEmbed    bool
	dryRun       bool
	resume       bool
	noPublish    bool
	progressPath string
}

func main() {
	var f flags
	flag.StringVar(&f.file, "file", "anime_data.json", "export file to ingest")
	flag.BoolVar(&f.skipEmbed, "skip-embed", false, "do not embed synopses of rows without embeddings")
	flag.BoolVar(&f.dryRun, "dry-run", false, "map and validate without writing")
	flag.BoolVar(&f.resume, "resume", false, "continue an interrupted run from saved progress")
	flag.BoolVar(&f.noPublish, "no-publish", false, "do not publish catalog.updated when done")
	flag.StringVar(&f.progressPath, "progress-path", "", "BadgerDB directory for resumable progress (default: in memory)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, f); err != nil {
		logging.Error().Err(err).Msg("Ingest failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, f flags) error {
	records, err := ingest.ReadExportFile(f.file)
	if err != nil {
		return err
	}
	logging.Info().Str("file", f.file).Int("records", len(records)).Msg("Export read")

	store, err := catalog.OpenSQLStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	if cfg.Database.AutoMigrate && !f.dryRun {
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("create catalog schema: %w", err)
		}
	}

	deps := ingest.Deps{Store: store}

	if cfg.LLM.Enabled && !f.skipEmbed {
		client, err := llm.NewClient(&cfg.LLM)
		if err != nil {
			return fmt.Errorf("create language model client: %w", err)
		}
		deps.Embedder = client
	}

	if f.progressPath != "" {
		db, err := badger.Open(badger.DefaultOptions(f.progressPath).WithLogger(nil))
		if err != nil {
			return fmt.Errorf("open progress store: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing progress store")
			}
		}()
		deps.Progress = ingest.NewBadgerProgress(db)
	}

	// An in-process bus has no subscribers outside this command, so only a
	// real broker is worth publishing to.
	if !f.noPublish && cfg.Events.Enabled && cfg.Events.URL != "" {
		bus, err := events.NewBus(cfg.Events, logging.NewWatermillAdapter(logging.WithComponent("events")))
		if err != nil {
			logging.Warn().Err(err).Msg("Event bus unavailable; servers will reload on their next refresh")
		} else {
			defer func() {
				if err := bus.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing event bus")
				}
			}()
			deps.Publisher = bus
		}
	}

	importer, err := ingest.NewImporter(deps, ingest.Options{
		BatchSize: cfg.Database.BatchSize,
		SkipEmbed: f.skipEmbed,
		DryRun:    f.dryRun,
		Resume:    f.resume,
	})
	if err != nil {
		return err
	}

	stats, err := importer.Import(ctx, records)
	if err != nil {
		return err
	}

	fmt.Printf("ingested %d/%d records (%d skipped, %d embedded, %d nsfw derived) in %s\n",
		stats.Upserted, stats.TotalRecords, stats.Skipped, stats.Embedded, stats.NSFWDerived, stats.Duration().Round(time.Millisecond))
	return nil
}
