// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// DefaultTopic is the subject catalog updates are published on.
const DefaultTopic = "catalog.updated"

// ErrInvalidEvent is returned when a decoded event is missing required fields.
var ErrInvalidEvent = errors.New("invalid catalog event")

// CatalogUpdated announces that stored catalog rows changed.
type CatalogUpdated struct {
	EventID    string    `json:"event_id"`
	Source     string    `json:"source"`
	Rows       int       `json:"rows"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewCatalogUpdated creates an event with a fresh id.
func NewCatalogUpdated(source string, rows int) *CatalogUpdated {
	return &CatalogUpdated{
		EventID:    uuid.NewString(),
		Source:     source,
		Rows:       rows,
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks the fields every consumer relies on.
func (e *CatalogUpdated) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: missing event_id", ErrInvalidEvent)
	}
	if e.Source == "" {
		return fmt.Errorf("%w: missing source", ErrInvalidEvent)
	}
	if e.Rows < 0 {
		return fmt.Errorf("%w: negative row count %d", ErrInvalidEvent, e.Rows)
	}
	return nil
}

// Marshal encodes the event as a message payload.
func (e *CatalogUpdated) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// Unmarshal decodes and validates a message payload.
func Unmarshal(payload []byte) (*CatalogUpdated, error) {
	var evt CatalogUpdated
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if err := evt.Validate(); err != nil {
		return nil, err
	}
	return &evt, nil
}
