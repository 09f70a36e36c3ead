// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package main is the entry point for the Animerank API server.

Animerank ranks the anime catalog against a visitor's liked and disliked
titles, moods and free-text query, blending tag overlap, liked-item
embedding similarity and query embedding similarity.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("animerank")
	├── DataSupervisor ("data-layer")
	│   ├── Catalog refresh (periodic snapshot reload)
	│   └── Embedding cache GC (when the cache is on disk)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Embedded NATS server (optional)
	│   └── Catalog events subscriber
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Catalog store: PostgreSQL (lib/pq) or DuckDB
 4. Catalog refresher: initial snapshot load
 5. Caches: in-memory or Redis result cache
 6. Language model: embedder, persistent embedding cache, extractor
 7. Ranking engine
 8. HTTP router: chi with CORS, rate limiting and metrics
 9. Events: embedded NATS server and catalog.updated subscriber
 10. Supervisor tree

# Catalog Freshness

The snapshot is reloaded every CATALOG_REFRESH_INTERVAL, whenever a
catalog.updated event arrives (published by cmd/ingest), and on
POST /api/admin/refresh. Every reload clears the response caches.

# Admin Tokens

Admin routes exist only when ADMIN_JWT_SECRET is set. Mint a token with:

	animerank -admin-token ops@example.com

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests (SHUTDOWN_TIMEOUT)
  - Stops the event subscriber and the embedded NATS server
  - Closes the catalog store and the embedding cache
*/
package main
