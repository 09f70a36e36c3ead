// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerank/internal/events"
)

// EventListener subscribes a handler to catalog events. Satisfied by
// *events.Bus.
type EventListener interface {
	Listen(ctx context.Context, handle events.Handler) (<-chan error, error)
}

// errSubscriptionClosed makes suture restart a consumer whose message
// channel closed underneath it.
var errSubscriptionClosed = errors.New("catalog event subscription closed")

// CatalogEventsService reloads the catalog whenever a catalog.updated event
// arrives, so servers pick up ingested rows without waiting for the
// periodic refresh.
type CatalogEventsService struct {
	listener  EventListener
	refresher CatalogRefresher
	timeout   time.Duration
	logger    zerolog.Logger
	name      string
}

// NewCatalogEventsService creates the event-driven refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogEventsService(listener EventListener, refresher CatalogRefresher, logger zerolog.Logger) *CatalogEventsService {
	return &CatalogEventsService{
		listener:  listener,
		refresher: refresher,
		timeout:   2 * time.Minute,
		logger:    logger.With().Str("service", "catalog-events").Logger(),
		name:      "catalog-events",
	}
}

// Serve implements suture.Service. It returns when ctx is canceled or the
// subscription ends.
func (s *CatalogEventsService) Serve(ctx context.Context) error {
	done, err := s.listener.Listen(ctx, s.handle)
	if err != nil {
		return fmt.Errorf("catalog events subscribe failed: %w", err)
	}
	s.logger.Info().Msg("listening for catalog events")

	err = <-done
	if err == nil {
		return errSubscriptionClosed
	}
	return err
}

func (s *CatalogEventsService) handle(ctx context.Context, evt *events.CatalogUpdated) error {
	s.logger.Info().
		Str("event_id", evt.EventID).
		Str("source", evt.Source).
		Int("rows", evt.Rows).
		Msg("catalog update received")

	refreshCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap, err := s.refresher.Refresh(refreshCtx)
	if err != nil {
		return fmt.Errorf("refresh after %s: %w", evt.EventID, err)
	}

	s.logger.Info().
		Str("event_id", evt.EventID).
		Int("items", snap.Len()).
		Msg("catalog refreshed from event")
	return nil
}

// String names the service in supervisor logs.
func (s *CatalogEventsService) String() string {
	return s.name
}
