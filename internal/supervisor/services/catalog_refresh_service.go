// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package services

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/animerank/internal/catalog"
)

// CatalogRefresher reloads the catalog snapshot. Satisfied by
// *catalog.Refresher.
type CatalogRefresher interface {
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// CatalogRefreshConfig controls the refresh schedule.
type CatalogRefreshConfig struct {
	// Interval between reloads. Zero means 10 minutes.
	Interval time.Duration

	// Timeout bounds a single reload. Zero means 2 minutes.
	Timeout time.Duration

	// RefreshOnStart reloads immediately when the service starts.
	RefreshOnStart bool

	// Clock drives the ticker. Nil means the real clock.
	Clock clockwork.Clock
}

// CatalogRefreshService reloads the catalog on a fixed interval. A failed
// reload keeps the previous snapshot and is retried on the next tick.
type CatalogRefreshService struct {
	refresher CatalogRefresher
	config    CatalogRefreshConfig
	logger    zerolog.Logger
	name      string
}

// NewCatalogRefreshService creates the periodic refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogRefreshService(refresher CatalogRefresher, cfg CatalogRefreshConfig, logger zerolog.Logger) *CatalogRefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &CatalogRefreshService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "catalog-refresh").Logger(),
		name:      "catalog-refresh",
	}
}

// Serve implements suture.Service.
func (s *CatalogRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("refresh_on_start", s.config.RefreshOnStart).
		Msg("catalog refresh service starting")

	if s.config.RefreshOnStart {
		s.refresh(ctx)
	}

	ticker := s.config.Clock.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog refresh service shutting down")
			return ctx.Err()

		case <-ticker.Chan():
			s.refresh(ctx)
		}
	}
}

func (s *CatalogRefreshService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	snap, err := s.refresher.Refresh(refreshCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("scheduled catalog refresh failed, keeping previous snapshot")
		return
	}

	s.logger.Debug().
		Int("items", snap.Len()).
		Dur("duration", time.Since(start)).
		Msg("catalog refreshed")
}

// String names the service in supervisor logs.
func (s *CatalogRefreshService) String() string {
	return s.name
}
