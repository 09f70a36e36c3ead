// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/metrics"
	"github.com/tomtom215/animerank/internal/recommend"
)

// embeddingKeyPrefix namespaces embedding entries in the database.
const embeddingKeyPrefix = "embedding:"

// OpenEmbeddingStore opens (or creates) the BadgerDB database at path. An
// empty path opens an in-memory database.
func OpenEmbeddingStore(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", path).
		Bool("in_memory", path == "").
		Msg("Embedding cache opened")
	return db, nil
}

// CachedEmbedder persists embeddings so that a text is sent to the service
// once per model. Entries never expire: an embedding is a pure function
// of model and text.
type CachedEmbedder struct {
	db    *badger.DB
	next  recommend.Embedder
	model string
}

var _ recommend.Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder wraps next with a persistent cache in db. model is part
// of every key so switching models never serves stale vectors.
func NewCachedEmbedder(db *badger.DB, next recommend.Embedder, model string) *CachedEmbedder {
	return &CachedEmbedder{db: db, next: next, model: model}
}

// Embed returns the cached embedding of text, or asks the wrapped embedder
// and stores its answer. Cache read and write failures are logged and
// bypassed; only failures of the wrapped embedder are returned.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := c.key(text)

	vec, err := c.get(key)
	switch {
	case err == nil:
		metrics.EmbeddingCacheHits.Inc()
		return vec, nil
	case !errors.Is(err, badger.ErrKeyNotFound):
		logging.Ctx(ctx).Warn().Err(err).Msg("Embedding cache read failed")
	}
	metrics.EmbeddingCacheMisses.Inc()

	vec, err = c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.put(key, vec); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Embedding cache write failed")
	}
	return vec, nil
}

// Len returns the number of cached embeddings.
func (c *CachedEmbedder) Len() (int, error) {
	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(embeddingKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// RunGC reclaims value log space. It returns nil when there was nothing to
// reclaim.
func (c *CachedEmbedder) RunGC(discardRatio float64) error {
	err := c.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

func (c *CachedEmbedder) key(text string) []byte {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return []byte(embeddingKeyPrefix + hex.EncodeToString(sum[:]))
}

func (c *CachedEmbedder) get(key []byte) ([]float64, error) {
	var vec []float64
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &vec)
		})
	})
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, badger.ErrKeyNotFound
	}
	return vec, nil
}

func (c *CachedEmbedder) put(key []byte, vec []float64) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}
