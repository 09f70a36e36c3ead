// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package events carries catalog change notifications between the ingestion
job and running API servers.

When ingestion finishes writing rows it publishes a [CatalogUpdated] event.
Every server subscribed to the topic reloads its catalog snapshot, which in
turn clears the ranking caches. Delivery is fan-out: there is no queue group,
so each instance receives every event.

# Transports

  - In-process: a Watermill gochannel pub/sub, used when events.enabled is
    false. Only publishers inside the same process are heard.
  - NATS: Watermill's NATS adapter on core NATS (JetStream disabled). Events
    are notifications, not a log, so a server that is down simply catches up
    on its next scheduled refresh.
  - Embedded: [EmbeddedServer] runs a nats-server inside the process for
    single-host deployments.

# Usage

	bus, err := events.NewBus(cfg.Events, logging.NewWatermillAdapter(logger))
	if err != nil {
	    return err
	}
	defer bus.Close()

	done, err := bus.Listen(ctx, func(ctx context.Context, evt *events.CatalogUpdated) error {
	    _, err := refresher.Refresh(ctx)
	    return err
	})
*/
package events
