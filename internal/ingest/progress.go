// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// progressKey is the BadgerDB key holding ingest progress.
const progressKey = "ingest:progress"

// ProgressTracker persists ingest progress so a run can resume.
type ProgressTracker interface {
	// Save persists the current progress.
	Save(ctx context.Context, stats *Stats) error

	// Load returns the last saved progress, or nil when there is none.
	Load(ctx context.Context) (*Stats, error)

	// Clear removes saved progress.
	Clear(ctx context.Context) error
}

// BadgerProgress implements ProgressTracker on BadgerDB. It can share the
// embedding cache database.
type BadgerProgress struct {
	db *badger.DB
}

// NewBadgerProgress creates a progress tracker on db.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// Save persists the current progress.
func (p *BadgerProgress) Save(_ context.Context, stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(progressKey), data)
	})
}

// Load returns the last saved progress. Returns nil, nil if none exists.
func (p *BadgerProgress) Load(_ context.Context) (*Stats, error) {
	var stats Stats
	found := false

	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(progressKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &stats, nil
}

// Clear removes saved progress.
func (p *BadgerProgress) Clear(_ context.Context) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(progressKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// InMemoryProgress implements ProgressTracker in memory. Runs without a
// progress database use it, so they cannot resume across processes.
type InMemoryProgress struct {
	mu    sync.Mutex
	stats *Stats
}

// NewInMemoryProgress creates an in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{}
}

// Save stores a copy of stats.
func (p *InMemoryProgress) Save(_ context.Context, stats *Stats) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := *stats
	p.stats = &cp
	return nil
}

// Load returns a copy of the stored progress.
func (p *InMemoryProgress) Load(_ context.Context) (*Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stats == nil {
		return nil, nil
	}
	cp := *p.stats
	return &cp, nil
}

// Clear removes the stored progress.
func (p *InMemoryProgress) Clear(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = nil
	return nil
}
