// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package services provides suture.Service wrappers for Animerank components.

Each wrapper turns a component's lifecycle (ListenAndServe, a ticker loop, an
event subscription) into suture's context-aware Serve method and names
itself through fmt.Stringer for supervisor logs.

# Available Services

HTTPServerService (api layer):
  - Runs the chi router behind *http.Server
  - Graceful shutdown with a bounded timeout

CatalogRefreshService (data layer):
  - Reloads the catalog snapshot every catalog.refresh_interval
  - Failed reloads keep the previous snapshot

EmbeddingGCService (data layer):
  - Runs badger value log GC on the persistent embedding cache

NATSServerService (messaging layer):
  - Owns shutdown of the embedded NATS server
  - Fails, and is logged by the supervisor, if the server stops on its own

CatalogEventsService (messaging layer):
  - Subscribes to catalog.updated and reloads the snapshot per event

# Interfaces

Components are consumed through small interfaces (CatalogRefresher,
EventListener, NATSServer, ValueLogCollector, HTTPServer) so tests can use
fakes and the package does not depend on concrete types beyond catalog and
events.
*/
package services
