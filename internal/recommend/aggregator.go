// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/logging"
)

// PreferenceExtractor reads liked and disliked titles, catalog tags and
// mood phrases out of free text. knownTags is the tag vocabulary the
// extractor may map onto.
type PreferenceExtractor interface {
	Extract(ctx context.Context, text string, nsfwOK bool, knownTags []string) (Extraction, error)
}

// Embedder turns text into an embedding comparable with catalog
// embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Aggregator merges a request with what its free text says.
type Aggregator struct {
	extractor PreferenceExtractor
	embedder  Embedder
	resolver  *Resolver
	logger    zerolog.Logger
}

// NewAggregator creates an aggregator. A nil extractor degrades every query
// to a plain semantic query. A nil embedder disables query similarity.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(extractor PreferenceExtractor, embedder Embedder, resolver *Resolver, logger zerolog.Logger) *Aggregator {
	if resolver == nil {
		resolver = NewResolver(DefaultFuzzyThreshold)
	}
	return &Aggregator{
		extractor: extractor,
		embedder:  embedder,
		resolver:  resolver,
		logger:    logger,
	}
}

// Aggregate builds the scoring preferences for req against snap.
//
// Signals from free text are added to the explicit ones and never remove
// them. Liked and disliked ids must exist in snap. The semantic query is
// embedded only when one exists and an embedder is configured; an
// embedding failure fails the request.
func (a *Aggregator) Aggregate(ctx context.Context, req Request, snap *catalog.Snapshot) (Preferences, error) {
	liked := append([]int(nil), req.LikedIDs...)
	disliked := append([]int(nil), req.DislikedIDs...)
	moods := append([]string(nil), req.Moods...)

	var semanticQuery string
	if text := strings.TrimSpace(req.Query); text != "" {
		ext := a.extract(ctx, text, req.NSFWOk, snap)

		liked = append(liked, a.resolver.Resolve(snap, ext.LikedTitles)...)
		disliked = append(disliked, a.resolver.Resolve(snap, ext.DislikedTitles)...)
		moods = append(moods, ext.MappedTags...)

		semanticQuery = strings.Join(ext.SemanticMoods, " ")
		if strings.TrimSpace(semanticQuery) == "" {
			semanticQuery = text
		}
	}

	liked = uniqueSortedIDs(liked)
	disliked = uniqueSortedIDs(disliked)

	if err := validateReferences(snap, liked, disliked); err != nil {
		return Preferences{}, err
	}

	prefs := Preferences{
		LikedIDs:      liked,
		DislikedIDs:   disliked,
		Exclude:       buildExclusionSet(liked, disliked, req.ExcludeIDs),
		Moods:         normalizeMoods(moods),
		SemanticQuery: semanticQuery,
		NSFWOk:        req.NSFWOk,
		Limit:         req.Limit,
	}

	if semanticQuery != "" && a.embedder != nil {
		vec, err := a.embedder.Embed(ctx, semanticQuery)
		if err != nil {
			return Preferences{}, fmt.Errorf("%w: embed semantic query: %w", ErrExternalService, err)
		}
		prefs.QueryEmbedding = vec
	}

	return prefs, nil
}

// extract calls the extractor, degrading to the plain text on any failure.
func (a *Aggregator) extract(ctx context.Context, text string, nsfwOK bool, snap *catalog.Snapshot) Extraction {
	if a.extractor == nil {
		return DegradedExtraction(text)
	}

	ext, err := a.extractor.Extract(ctx, text, nsfwOK, snap.Vocabulary(nsfwOK))
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Msg("Preference extraction failed, using query text as semantic query")
		return DegradedExtraction(text)
	}
	if len(ext.SemanticMoods) == 0 {
		ext.SemanticMoods = []string{text}
	}
	return ext
}

func validateReferences(snap *catalog.Snapshot, idLists ...[]int) error {
	missing := make(map[int]struct{})
	for _, ids := range idLists {
		for _, id := range ids {
			if !snap.Contains(id) {
				missing[id] = struct{}{}
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	ids := make([]int, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return &InvalidReferenceError{IDs: ids}
}
