// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/animerank/internal/auth"
	"github.com/tomtom215/animerank/internal/cache"
	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/config"
	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/models"
	"github.com/tomtom215/animerank/internal/recommend"
)

// Version is reported by the health endpoint. It is set at build time.
var Version = "dev"

// CatalogSource provides the active snapshot. *catalog.Refresher
// implements it.
type CatalogSource interface {
	Current() *catalog.Snapshot
	Loaded() bool
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// Recommender runs the ranking pipeline. *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, endpoint string, req recommend.Request) ([]recommend.ScoredResult, bool, error)
	InvalidateCache() int
	CachedResults() int
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, cache invalidation
//   - handlers_recommend.go: ranking endpoints
//   - handlers_catalog.go: search, item lookup, tags, config, metadata
//   - handlers_health.go: health probes
//   - handlers_admin.go: admin reload
type Handler struct {
	catalog    CatalogSource
	engine     Recommender
	jwtManager *auth.JWTManager

	requestTimeout time.Duration
	defaultLimit   int
	maxLimit       int
	startTime      time.Time

	tags     cache.Store[[]string]
	configs  cache.Store[models.ConfigResponse]
	metadata cache.Store[models.CatalogMetadata]
}

// HandlerDeps groups the collaborators of a Handler.
type HandlerDeps struct {
	Catalog CatalogSource
	Engine  Recommender

	// JWTManager enables the admin routes. Nil leaves them unmounted.
	JWTManager *auth.JWTManager

	Recommend config.RecommendConfig
	Cache     config.CacheConfig
}

// NewHandler creates the API handler. The catalog views (tags, config,
// metadata) get their own in-memory caches with the configured TTL.
//
// Example:
//
//	handler, err := api.NewHandler(api.HandlerDeps{
//	    Catalog:   refresher,
//	    Engine:    engine,
//	    Recommend: cfg.Recommend,
//	    Cache:     cfg.Cache,
//	})
//	router := api.NewRouter(handler, api.RouterConfigFromSecurity(cfg.Security))
func NewHandler(deps HandlerDeps) (*Handler, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("recommender is required")
	}

	timeout := deps.Recommend.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	defaults := recommend.DefaultConfig()
	defaultLimit, maxLimit := deps.Recommend.DefaultLimit, deps.Recommend.MaxLimit
	if defaultLimit <= 0 {
		defaultLimit = defaults.DefaultLimit
	}
	if maxLimit < defaultLimit {
		maxLimit = defaults.MaxLimit
	}

	opts := func(ns string) cache.Options {
		return cache.Options{Namespace: ns, TTL: deps.Cache.TTL, Capacity: deps.Cache.Capacity}
	}

	return &Handler{
		catalog:        deps.Catalog,
		engine:         deps.Engine,
		jwtManager:     deps.JWTManager,
		requestTimeout: timeout,
		defaultLimit:   defaultLimit,
		maxLimit:       maxLimit,
		startTime:      time.Now(),
		tags:           cache.New[[]string](opts("tags")),
		configs:        cache.New[models.ConfigResponse](opts("config")),
		metadata:       cache.New[models.CatalogMetadata](opts("metadata")),
	}, nil
}

// AdminEnabled reports whether the admin routes are mounted.
func (h *Handler) AdminEnabled() bool {
	return h.jwtManager != nil
}

// InvalidateCaches clears every cache namespace, ranked results included,
// and returns the number of entries dropped. It is registered as a catalog
// refresh hook.
func (h *Handler) InvalidateCaches() int {
	n := h.engine.InvalidateCache()
	n += h.tags.Clear()
	n += h.configs.Clear()
	n += h.metadata.Clear()
	if n > 0 {
		logging.Debug().Int("entries", n).Msg("API caches invalidated")
	}
	return n
}

// snapshot returns the active snapshot, or catalog.ErrNotLoaded before the
// first successful load.
func (h *Handler) snapshot() (*catalog.Snapshot, error) {
	if !h.catalog.Loaded() {
		return nil, catalog.ErrNotLoaded
	}
	return h.catalog.Current(), nil
}
