// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package supervisor provides process supervision for Animerank using suture v4.

Long-running services are organized into a three-layer tree so a failure in
one layer does not take the others down:

	RootSupervisor ("animerank")
	├── DataSupervisor ("data-layer")
	│   ├── CatalogRefreshService (periodic snapshot reload)
	│   └── EmbeddingGCService (if the embedding cache is enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── NATSServerService (if events.embedded_server)
	│   └── CatalogEventsService (reload on catalog.updated)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the event subscriber never interrupts ranking requests, and the
API keeps serving the last good snapshot while the data layer retries.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddDataService(services.NewCatalogRefreshService(refresher, refreshCfg, logger))
	tree.AddMessagingService(services.NewCatalogEventsService(bus, refresher, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog onto the application's zerolog stream.

See Also:
  - internal/supervisor/services: service wrappers
  - https://pkg.go.dev/github.com/thejerf/suture/v4
*/
package supervisor
