// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerank/internal/cache"
	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/metrics"
)

// Ranking endpoints. Each has its own cache keys.
const (
	EndpointRecommend     = "recommend"
	EndpointRecommendMore = "recommend_more"
)

// SnapshotSource provides the catalog snapshot to rank against.
// *catalog.Refresher implements it.
type SnapshotSource interface {
	Current() *catalog.Snapshot
}

// resultKey is hashed into the result cache key.
type resultKey struct {
	Catalog string  `json:"catalog"`
	Request Request `json:"request"`
}

// Metrics contains engine counters since start.
type Metrics struct {
	TotalRequests int64 `json:"total_requests"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	Errors        int64 `json:"errors"`
}

// Engine runs the ranking pipeline behind a result cache.
// It is safe for concurrent use.
type Engine struct {
	cfg        Config
	snapshots  SnapshotSource
	aggregator *Aggregator
	scorer     *Scorer
	results    cache.Store[[]ScoredResult]
	logger     zerolog.Logger

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates a ranking engine. A nil results store gets an
// in-memory cache with the default TTL.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, snapshots SnapshotSource, aggregator *Aggregator, results cache.Store[[]ScoredResult], logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot source is required")
	}
	if aggregator == nil {
		aggregator = NewAggregator(nil, nil, NewResolver(cfg.FuzzyThreshold), logger)
	}
	if results == nil {
		results = cache.New[[]ScoredResult](cache.Options{Namespace: "recommend"})
	}

	return &Engine{
		cfg:        cfg,
		snapshots:  snapshots,
		aggregator: aggregator,
		scorer:     NewScorer(cfg.DislikedPenalty, cfg.MoodBoost),
		results:    results,
		logger:     logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend ranks the current snapshot for req. Identical requests to the
// same endpoint within the cache TTL share one result; the boolean reports
// whether the result came from the cache. Returned slices are shared with
// the cache and must not be modified.
func (e *Engine) Recommend(ctx context.Context, endpoint string, req Request) ([]ScoredResult, bool, error) {
	e.requestCount.Add(1)

	canonical := req.Canonical()
	canonical.Limit = e.cfg.effectiveLimit(req.Limit)

	// The key is bound to the snapshot the ranking runs against. A ranking
	// still in flight when the catalog is replaced stores its result under
	// the old version, which later requests never look up.
	snap := e.snapshots.Current()
	key := cache.GenerateKey(endpoint, resultKey{Catalog: snap.Version(), Request: canonical})

	results, cached, err := e.results.GetOrLoad(key, func() ([]ScoredResult, error) {
		start := time.Now()

		out, candidates, err := e.rank(ctx, canonical, snap)
		if err != nil {
			return nil, err
		}

		metrics.RecordRecommendation(endpoint, time.Since(start), candidates, len(out))
		e.logRanking(ctx, endpoint, canonical, len(out), time.Since(start))
		return out, nil
	})
	if err != nil {
		e.errorCount.Add(1)
		if reason := RejectReason(err); reason != "" {
			metrics.RecommendRejected.WithLabelValues(reason).Inc()
		}
		return nil, false, err
	}

	if cached {
		e.cacheHits.Add(1)
	} else {
		e.cacheMisses.Add(1)
	}
	return results, cached, nil
}

// Rank runs the pipeline for req against snap without the cache.
func (e *Engine) Rank(ctx context.Context, req Request, snap *catalog.Snapshot) ([]ScoredResult, error) {
	out, _, err := e.rank(ctx, req, snap)
	return out, err
}

func (e *Engine) rank(ctx context.Context, req Request, snap *catalog.Snapshot) ([]ScoredResult, int, error) {
	prefs, err := e.aggregator.Aggregate(ctx, req, snap)
	if err != nil {
		return nil, 0, err
	}

	candidates := FilterCandidates(snap.Items(), prefs.Exclude, prefs.NSFWOk)

	ranked, err := e.scorer.Score(ScoreInput{
		Candidates:     candidates,
		Liked:          snap.Lookup(prefs.LikedIDs),
		Disliked:       snap.Lookup(prefs.DislikedIDs),
		Moods:          prefs.Moods,
		QueryEmbedding: prefs.QueryEmbedding,
		Weights:        e.cfg.Weights,
	})
	if err != nil {
		return nil, len(candidates), fmt.Errorf("score candidates: %w", err)
	}

	limit := e.cfg.effectiveLimit(prefs.Limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]ScoredResult, len(ranked))
	for i, r := range ranked {
		out[i] = ScoredResult{
			Anime: r.Item.Summary(),
			Score: r.Score,
			Reason: Reason{
				OverlapTags: r.OverlapTags,
				Note:        MatchNote,
			},
		}
	}
	return out, len(candidates), nil
}

// InvalidateCache drops every cached ranking and returns how many entries
// were removed. It runs whenever a new catalog snapshot is published.
func (e *Engine) InvalidateCache() int {
	n := e.results.Clear()
	if n > 0 {
		e.logger.Debug().Int("entries", n).Msg("Ranking cache invalidated")
	}
	return n
}

// CachedResults returns the number of stored rankings, stale ones included.
func (e *Engine) CachedResults() int {
	return e.results.Len()
}

// GetMetrics returns the engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		TotalRequests: e.requestCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		Errors:        e.errorCount.Load(),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) logRanking(ctx context.Context, endpoint string, req Request, results int, took time.Duration) {
	e.logger.Debug().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("endpoint", endpoint).
		Int("liked", len(req.LikedIDs)).
		Int("disliked", len(req.DislikedIDs)).
		Int("moods", len(req.Moods)).
		Bool("has_query", req.Query != "").
		Bool("nsfw_ok", req.NSFWOk).
		Int("results", results).
		Dur("duration", took).
		Msg("Ranking computed")
}
