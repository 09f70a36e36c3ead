// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package cache provides the result caches that sit in front of the ranking
pipeline and the cheaper catalog views.

# Overview

The package provides:
  - Cache: generic, mutex-guarded TTL cache with an optional LRU capacity bound
  - RedisCache: the same contract over Redis, for replicas that share results
  - Store: the interface both satisfy, selected with NewStore
  - GenerateKey: deterministic keys from an endpoint name and canonical params

# Freshness

An entry is fresh while now - CreatedAt < TTL. Reads of stale entries are
misses and drop the entry. There is no background sweep; an unbounded cache
therefore keeps one slot per distinct key until it is read again or cleared,
which is why production configuration sets a capacity.

# Namespaces

Each cached view has its own Cache instance and therefore its own TTL clock:

	recommend   ranked results per endpoint and request fingerprint
	tags        tag vocabulary per nsfw flag
	config      tag vocabulary plus corpus metadata per nsfw flag
	metadata    corpus size and last update time

All namespaces are cleared through Clear when the catalog snapshot changes.

# Usage Example

	results := cache.New[[]recommend.ScoredResult](cache.Options{
	    Namespace: "recommend",
	    TTL:       time.Minute,
	    Capacity:  10000,
	})

	key := cache.GenerateKey("recommend", req.Canonical())
	ranked, cached, err := results.GetOrLoad(key, func() ([]recommend.ScoredResult, error) {
	    return engine.rank(ctx, req)
	})

# Testing

Pass clockwork.NewFakeClock() in Options.Clock and advance it to cross the
TTL boundary deterministically.
*/
package cache
