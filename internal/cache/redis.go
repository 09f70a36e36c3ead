// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/metrics"
)

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	// Client is the shared connection. Several namespaces may share one client.
	Client redis.UniversalClient

	// Prefix is prepended to every key, e.g. "animerank:".
	Prefix string

	// TTL is the freshness window, enforced by Redis key expiry.
	TTL time.Duration

	// OpTimeout bounds each Redis round trip. Zero means 500ms.
	OpTimeout time.Duration
}

// RedisCache is a Store backed by Redis, for deployments that run several
// API replicas and want them to share ranking results. Values are JSON
// encoded. Redis failures are logged and treated as misses so the caller
// recomputes instead of failing the request.
type RedisCache[V any] struct {
	client    redis.UniversalClient
	ns        string
	prefix    string
	ttl       time.Duration
	opTimeout time.Duration
	logger    zerolog.Logger
	group     singleflight.Group
}

// NewRedisConnection opens a client from a redis:// URL and verifies it
// with a PING.
func NewRedisConnection(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// NewRedisCache creates a Redis-backed store for one namespace.
func NewRedisCache[V any](namespace string, opts RedisOptions) *RedisCache[V] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 500 * time.Millisecond
	}

	return &RedisCache[V]{
		client:    opts.Client,
		ns:        namespace,
		prefix:    opts.Prefix + namespace + ":",
		ttl:       opts.TTL,
		opTimeout: opts.OpTimeout,
		logger:    logging.WithComponent("cache").With().Str("namespace", namespace).Str("backend", "redis").Logger(),
	}
}

// Namespace returns the cache's metrics label.
func (r *RedisCache[V]) Namespace() string {
	return r.ns
}

// Get returns the decoded value stored under key.
func (r *RedisCache[V]) Get(key string) (V, bool) {
	var zero V

	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Msg("Redis get failed, treating as miss")
		}
		metrics.CacheMisses.WithLabelValues(r.ns).Inc()
		return zero, false
	}

	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		metrics.CacheMisses.WithLabelValues(r.ns).Inc()
		return zero, false
	}

	metrics.CacheHits.WithLabelValues(r.ns).Inc()
	return v, true
}

// Set stores value under key with the namespace TTL.
func (r *RedisCache[V]) Set(key string, value V) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Cache value not serializable, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Msg("Redis set failed")
	}
}

// GetOrLoad returns the cached value for key or loads and stores it.
// Concurrent misses within this process share one load.
func (r *RedisCache[V]) GetOrLoad(key string, load func() (V, error)) (V, bool, error) {
	if v, ok := r.Get(key); ok {
		return v, true, nil
	}

	res, err, _ := r.group.Do(key, func() (interface{}, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		r.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

// Delete removes key.
func (r *RedisCache[V]) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		r.logger.Warn().Err(err).Msg("Redis delete failed")
	}
}

// Clear deletes every key in the namespace. Keys are found with SCAN so
// the server is never blocked by KEYS on a large keyspace.
func (r *RedisCache[V]) Clear() int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*r.opTimeout)
	defer cancel()

	removed := 0
	err := r.scan(ctx, func(keys []string) error {
		n, err := r.client.Del(ctx, keys...).Result()
		removed += int(n)
		return err
	})
	if err != nil {
		r.logger.Warn().Err(err).Int("removed", removed).Msg("Redis namespace clear incomplete")
	}
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(r.ns, "invalidated").Add(float64(removed))
	}
	return removed
}

// Len counts the keys in the namespace.
func (r *RedisCache[V]) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*r.opTimeout)
	defer cancel()

	total := 0
	if err := r.scan(ctx, func(keys []string) error {
		total += len(keys)
		return nil
	}); err != nil {
		r.logger.Warn().Err(err).Msg("Redis scan failed")
	}
	return total
}

func (r *RedisCache[V]) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
