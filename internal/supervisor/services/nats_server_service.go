// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package services

import (
	"context"
	"fmt"
	"time"
)

// NATSServer is the lifecycle of an already started embedded broker.
// Satisfied by *events.EmbeddedServer.
type NATSServer interface {
	Shutdown(ctx context.Context) error
	IsRunning() bool
}

// NATSServerService owns the embedded NATS server's shutdown. The server is
// started before the tree so the event bus can connect to it during wiring.
type NATSServerService struct {
	server          NATSServer
	shutdownTimeout time.Duration
	checkInterval   time.Duration
	name            string
}

// NewNATSServerService wraps an embedded server.
func NewNATSServerService(server NATSServer, shutdownTimeout time.Duration) *NATSServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		checkInterval:   5 * time.Second,
		name:            "nats-server",
	}
}

// Serve implements suture.Service. A server that stops on its own is
// reported as a failure.
func (s *NATSServerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("nats server shutdown failed: %w", err)
			}
			return ctx.Err()

		case <-ticker.C:
			if !s.server.IsRunning() {
				return fmt.Errorf("embedded nats server stopped unexpectedly")
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *NATSServerService) String() string {
	return s.name
}
