// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/metrics"
)

// ErrNotLoaded is returned by callers that need a snapshot before the
// first successful refresh.
var ErrNotLoaded = errors.New("catalog snapshot not loaded")

// RefreshHook runs after a new snapshot has been published.
type RefreshHook func(snap *Snapshot)

// RefresherOptions configures a Refresher.
type RefresherOptions struct {
	// EmbedDim is the expected embedding length; see NormalizeRow.
	EmbedDim int

	// NSFWTags is attached to every snapshot for vocabulary filtering.
	NSFWTags TagSet

	// Clock stamps snapshot load times. Nil means the real clock.
	Clock clockwork.Clock
}

// Refresher owns the current catalog snapshot. Refresh reloads the store,
// normalizes every row and swaps the snapshot in one atomic store, then
// runs the registered hooks (cache invalidation). Readers call Current and
// never block on a refresh in progress.
type Refresher struct {
	store    Store
	embedDim int
	nsfwTags TagSet
	clock    clockwork.Clock

	current atomic.Pointer[Snapshot]
	loaded  atomic.Bool

	// refreshMu serializes reloads so hooks observe snapshots in order.
	refreshMu sync.Mutex

	hooksMu sync.RWMutex
	hooks   []RefreshHook
}

// NewRefresher creates a refresher. Until the first Refresh, Current
// returns an empty snapshot.
func NewRefresher(store Store, opts RefresherOptions) *Refresher {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	r := &Refresher{
		store:    store,
		embedDim: opts.EmbedDim,
		nsfwTags: opts.NSFWTags,
		clock:    opts.Clock,
	}
	r.current.Store(NewSnapshot(nil, opts.NSFWTags, opts.Clock.Now()))
	return r
}

// Current returns the active snapshot. It is never nil.
func (r *Refresher) Current() *Snapshot {
	return r.current.Load()
}

// Loaded reports whether a snapshot has been loaded from the store.
func (r *Refresher) Loaded() bool {
	return r.loaded.Load()
}

// NSFWTags returns the configured NSFW tag set.
func (r *Refresher) NSFWTags() TagSet {
	return r.nsfwTags
}

// OnRefresh registers a hook to run after every successful refresh.
func (r *Refresher) OnRefresh(hook RefreshHook) {
	r.hooksMu.Lock()
	defer r.hooksMu.Unlock()
	r.hooks = append(r.hooks, hook)
}

// Refresh reloads the catalog from the store and publishes the result.
// On error the previous snapshot stays active.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	start := r.clock.Now()
	rows, err := r.store.LoadRows(ctx)
	if err != nil {
		metrics.RecordCatalogRefresh(r.clock.Since(start), 0, err)
		return nil, fmt.Errorf("failed to load catalog rows: %w", err)
	}

	items := make([]*Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, NormalizeRow(row, r.embedDim))
	}
	snap := NewSnapshot(items, r.nsfwTags, r.clock.Now())

	r.publish(snap)
	metrics.RecordCatalogRefresh(r.clock.Since(start), snap.Len(), nil)

	logging.Info().
		Int("items", snap.Len()).
		Dur("duration", r.clock.Since(start)).
		Msg("Catalog snapshot refreshed")

	return snap, nil
}

// Publish installs snap as the current snapshot and runs the hooks. It is
// used for catalogs that do not come from a store.
func (r *Refresher) Publish(snap *Snapshot) {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()
	r.publish(snap)
}

func (r *Refresher) publish(snap *Snapshot) {
	r.current.Store(snap)
	r.loaded.Store(true)

	r.hooksMu.RLock()
	hooks := make([]RefreshHook, len(r.hooks))
	copy(hooks, r.hooks)
	r.hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(snap)
	}
}
