// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ValueLogCollector runs badger value log GC. Satisfied by
// *llm.CachedEmbedder.
type ValueLogCollector interface {
	RunGC(discardRatio float64) error
}

// EmbeddingGCService reclaims space in the persistent embedding cache.
type EmbeddingGCService struct {
	collector    ValueLogCollector
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
	name         string
}

// NewEmbeddingGCService runs GC every interval (zero means 30 minutes).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEmbeddingGCService(collector ValueLogCollector, interval time.Duration, logger zerolog.Logger) *EmbeddingGCService {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &EmbeddingGCService{
		collector:    collector,
		interval:     interval,
		discardRatio: 0.5,
		logger:       logger.With().Str("service", "embedding-gc").Logger(),
		name:         "embedding-gc",
	}
}

// Serve implements suture.Service.
func (s *EmbeddingGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.collector.RunGC(s.discardRatio); err != nil {
				s.logger.Warn().Err(err).Msg("embedding cache GC failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *EmbeddingGCService) String() string {
	return s.name
}
