// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package cache

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Store is the contract shared by the in-process Cache and RedisCache.
// Consumers depend on Store so the backend is a deployment choice.
type Store[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	GetOrLoad(key string, load func() (V, error)) (V, bool, error)
	Delete(key string)
	Clear() int
	Len() int
	Namespace() string
}

// Backend identifiers accepted by NewStore.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// StoreConfig selects and configures a Store backend.
type StoreConfig struct {
	Backend   string
	Namespace string
	TTL       time.Duration
	Capacity  int
	Clock     clockwork.Clock

	// Redis is required when Backend is BackendRedis.
	Redis *RedisOptions
}

// NewStore creates a Store for the configured backend.
func NewStore[V any](cfg StoreConfig) (Store[V], error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return New[V](Options{
			Namespace: cfg.Namespace,
			TTL:       cfg.TTL,
			Capacity:  cfg.Capacity,
			Clock:     cfg.Clock,
		}), nil
	case BackendRedis:
		if cfg.Redis == nil {
			return nil, fmt.Errorf("cache %q: redis backend requires redis options", cfg.Namespace)
		}
		opts := *cfg.Redis
		if opts.TTL == 0 {
			opts.TTL = cfg.TTL
		}
		return NewRedisCache[V](cfg.Namespace, opts), nil
	default:
		return nil, fmt.Errorf("cache %q: unknown backend %q", cfg.Namespace, cfg.Backend)
	}
}

var (
	_ Store[int] = (*Cache[int])(nil)
	_ Store[int] = (*RedisCache[int])(nil)
)
