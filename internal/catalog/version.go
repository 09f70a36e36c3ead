// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"github.com/goccy/go-json"
)

// fingerprint hashes everything a ranking or catalog view can observe:
// item order, every displayed field, the display tags, the embeddings and
// the NSFW tag set. Snapshots with equal content share a fingerprint, so
// replicas that loaded the same catalog also share cache entries.
func fingerprint(items []*Item, nsfwTags TagSet) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	var buf [8]byte

	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			// Item only holds JSON-safe values; fall back to the id.
			binary.LittleEndian.PutUint64(buf[:], uint64(it.ID))
			h.Write(buf[:])
		}
		writeStrings(h, it.DisplayTags)

		binary.LittleEndian.PutUint64(buf[:], uint64(len(it.Embedding)))
		h.Write(buf[:])
		for _, v := range it.Embedding {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	writeStrings(h, nsfwTags.List())

	return hex.EncodeToString(h.Sum(nil)[:16])
}

// writeStrings writes a length-prefixed list so adjacent lists cannot
// run into each other.
func writeStrings(h hash.Hash, values []string) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(values)))
	h.Write(buf[:])
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(v)))
		h.Write(buf[:])
		h.Write([]byte(v))
	}
}
