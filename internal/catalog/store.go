// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"context"
	"sync"
)

// Store is the persistent catalog. The ranking path never reads it
// directly; the Refresher loads it into immutable snapshots.
type Store interface {
	// LoadRows returns every stored row in a stable order.
	LoadRows(ctx context.Context) ([]RawRow, error)

	// Upsert inserts rows or replaces the stored row with the same id.
	Upsert(ctx context.Context, rows []RawRow) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// MemoryStore is a Store held in memory, ordered by insertion. It backs
// tests and single-file demos.
type MemoryStore struct {
	mu    sync.RWMutex
	rows  []RawRow
	index map[int]int
}

// NewMemoryStore creates a store seeded with rows.
func NewMemoryStore(rows ...RawRow) *MemoryStore {
	s := &MemoryStore{index: make(map[int]int)}
	// Upsert on a memory store cannot fail.
	_ = s.Upsert(context.Background(), rows) //nolint:errcheck
	return s
}

// LoadRows returns a copy of the stored rows.
func (s *MemoryStore) LoadRows(_ context.Context) ([]RawRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RawRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Upsert adds or replaces rows by id.
func (s *MemoryStore) Upsert(_ context.Context, rows []RawRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		if i, ok := s.index[row.ID]; ok {
			s.rows[i] = row
			continue
		}
		s.index[row.ID] = len(s.rows)
		s.rows = append(s.rows, row)
	}
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
