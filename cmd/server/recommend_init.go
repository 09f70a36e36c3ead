// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/animerank/internal/cache"
	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/config"
	"github.com/tomtom215/animerank/internal/llm"
	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/recommend"
)

// RecommendComponents holds the ranking engine and the resources it owns.
type RecommendComponents struct {
	Engine *recommend.Engine

	// EmbeddingCache is set when embeddings are cached in BadgerDB.
	EmbeddingCache *llm.CachedEmbedder

	closers []func() error
}

// Close releases the Redis connection and the embedding cache.
func (c *RecommendComponents) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation resources")
		}
	}
}

// initRecommend builds the result cache, the language model collaborators
// and the ranking engine. A disabled or unreachable language model leaves
// the engine ranking on explicit signals only.
func initRecommend(ctx context.Context, cfg *config.Config, refresher *catalog.Refresher) (*RecommendComponents, error) {
	comps := &RecommendComponents{}

	results, err := newResultStore(ctx, cfg.Cache, comps)
	if err != nil {
		comps.Close()
		return nil, err
	}

	extractor, embedder, err := initLLM(cfg, comps)
	if err != nil {
		comps.Close()
		return nil, err
	}

	rcfg := recommendConfig(cfg.Recommend)
	aggregator := recommend.NewAggregator(
		extractor,
		embedder,
		recommend.NewResolver(rcfg.FuzzyThreshold),
		logging.WithComponent("aggregator"),
	)

	engine, err := recommend.NewEngine(rcfg, refresher, aggregator, results, logging.WithComponent("recommend"))
	if err != nil {
		comps.Close()
		return nil, fmt.Errorf("create ranking engine: %w", err)
	}
	comps.Engine = engine

	logging.Info().
		Str("cache_backend", cfg.Cache.Backend).
		Bool("llm_enabled", cfg.LLM.Enabled).
		Float64("tag_weight", rcfg.Weights.Tag).
		Float64("liked_weight", rcfg.Weights.Liked).
		Float64("query_weight", rcfg.Weights.Query).
		Msg("Ranking engine initialized")
	return comps, nil
}

// newResultStore creates the ranked results cache on the configured backend.
func newResultStore(ctx context.Context, cfg config.CacheConfig, comps *RecommendComponents) (cache.Store[[]recommend.ScoredResult], error) {
	storeCfg := cache.StoreConfig{
		Backend:   cfg.Backend,
		Namespace: "recommend",
		TTL:       cfg.TTL,
		Capacity:  cfg.Capacity,
	}

	if cfg.Backend == cache.BackendRedis {
		client, err := cache.NewRedisConnection(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		comps.closers = append(comps.closers, client.Close)
		storeCfg.Redis = &cache.RedisOptions{
			Client: client,
			Prefix: cfg.RedisPrefix,
			TTL:    cfg.TTL,
		}
		logging.Info().Str("prefix", cfg.RedisPrefix).Msg("Result cache shared through Redis")
	}

	return cache.NewStore[[]recommend.ScoredResult](storeCfg)
}

// initLLM returns the extractor and embedder. Both are nil interfaces when
// the language model is disabled so the aggregator degrades cleanly.
func initLLM(cfg *config.Config, comps *RecommendComponents) (recommend.PreferenceExtractor, recommend.Embedder, error) {
	if !cfg.LLM.Enabled {
		logging.Info().Msg("Language model disabled (LLM_ENABLED=false); free-text queries use explicit signals only")
		return nil, nil, nil
	}

	client, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("create language model client: %w", err)
	}

	var embedder recommend.Embedder = client
	if cfg.LLM.EmbeddingCachePath != "" {
		db, err := llm.OpenEmbeddingStore(cfg.LLM.EmbeddingCachePath)
		if err != nil {
			return nil, nil, err
		}
		comps.closers = append(comps.closers, db.Close)
		cached := llm.NewCachedEmbedder(db, client, client.EmbeddingModel())
		comps.EmbeddingCache = cached
		embedder = cached
	}

	return llm.NewExtractor(client), embedder, nil
}

// recommendConfig maps the ranking settings onto the engine config. The
// koanf defaults already supply every value, so zero is a deliberate
// setting (for example no disliked penalty) rather than "unset".
func recommendConfig(cfg config.RecommendConfig) recommend.Config {
	return recommend.Config{
		Weights: recommend.Weights{
			Tag:   cfg.TagWeight,
			Liked: cfg.LikedWeight,
			Query: cfg.QueryWeight,
		},
		DislikedPenalty: cfg.DislikedPenalty,
		MoodBoost:       cfg.MoodBoost,
		FuzzyThreshold:  cfg.FuzzyThreshold,
		DefaultLimit:    cfg.DefaultLimit,
		MaxLimit:        cfg.MaxLimit,
	}
}
