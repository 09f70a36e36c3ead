// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package main

import (
	"fmt"

	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/config"
	"github.com/tomtom215/animerank/internal/events"
	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/supervisor"
	"github.com/tomtom215/animerank/internal/supervisor/services"
)

// EventsComponents holds the catalog event bus and the optional embedded
// broker.
type EventsComponents struct {
	Bus    *events.Bus
	Server *events.EmbeddedServer
}

// Close closes the bus. The embedded server is stopped by its service.
func (c *EventsComponents) Close() {
	if c == nil || c.Bus == nil {
		return
	}
	if err := c.Bus.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event bus")
	}
}

// initEvents starts the embedded NATS server when configured, connects the
// bus and adds the broker and the catalog event subscriber to the tree.
// With events disabled the bus is in-process and nothing outside this
// server can trigger a reload through it.
func initEvents(cfg *config.Config, refresher *catalog.Refresher, tree *supervisor.SupervisorTree) (*EventsComponents, error) {
	comps := &EventsComponents{}
	eventsCfg := cfg.Events

	if eventsCfg.Enabled && eventsCfg.EmbeddedServer {
		srv, err := events.NewEmbeddedServer("127.0.0.1", eventsCfg.EmbeddedPort)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		comps.Server = srv
		// Connect to the broker we just started.
		eventsCfg.URL = srv.ClientURL()
		tree.AddMessagingService(services.NewNATSServerService(srv, cfg.Server.ShutdownTimeout))
		logging.Info().Str("url", srv.ClientURL()).Msg("Embedded NATS server started")
	}

	bus, err := events.NewBus(eventsCfg, logging.NewWatermillAdapter(logging.WithComponent("events")))
	if err != nil {
		return nil, fmt.Errorf("connect event bus: %w", err)
	}
	comps.Bus = bus

	tree.AddMessagingService(services.NewCatalogEventsService(bus, refresher, logging.WithComponent("catalog-events")))
	logging.Info().
		Str("transport", bus.Transport()).
		Str("topic", bus.Topic()).
		Msg("Catalog event subscriber added to supervisor tree")

	return comps, nil
}
