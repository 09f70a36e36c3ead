// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package catalog loads the anime catalog into immutable in-memory snapshots.

# Data Flow

	Store (Postgres or DuckDB)
	  -> LoadRows        raw, possibly malformed rows
	  -> NormalizeRow    typed Item with neutral defaults
	  -> NewSnapshot     ordered, indexed, read-only
	  -> Refresher       atomic publish + invalidation hooks

The ranking pipeline only ever sees a *Snapshot. A refresh never mutates
a published snapshot; it builds a new one and swaps the pointer, so a
request in flight keeps a consistent view.

# Stores

SQLStore supports two drivers:
  - postgres (lib/pq): list columns are native arrays, main_picture is JSONB
  - duckdb: list columns are JSON text, for single-node deployments and tests

MemoryStore holds rows in memory for tests.

# Derived Views

Snapshot exposes the views served by the catalog endpoints: Vocabulary
(tag list with one display spelling per tag), Metadata (count and latest
update) and Search (prefix matches before substring matches).
*/
package catalog
