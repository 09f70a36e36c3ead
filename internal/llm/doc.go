// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package llm connects the ranking pipeline to an OpenAI-compatible language
model service.

It provides the two collaborators the recommend package declares:

  - Client implements recommend.Embedder through POST /embeddings.
  - Extractor implements recommend.PreferenceExtractor through
    POST /chat/completions, prompting the chat model with the catalog's
    tag vocabulary.

CachedEmbedder wraps any embedder with a BadgerDB-backed cache keyed by
model and text, so repeated queries and re-ingested synopses are embedded
once.

# Resilience

All calls share one rate limiter and one circuit breaker. Rate-limited
responses (HTTP 429) are retried with exponential backoff, honoring
Retry-After. Client errors other than 429 do not trip the breaker.

# Usage

	client, err := llm.NewClient(&cfg.LLM)
	if err != nil {
	    return err
	}
	db, err := llm.OpenEmbeddingStore(cfg.LLM.EmbeddingCachePath)
	if err != nil {
	    return err
	}
	embedder := llm.NewCachedEmbedder(db, client, client.EmbeddingModel())
	extractor := llm.NewExtractor(client)
	agg := recommend.NewAggregator(extractor, embedder, resolver, logger)
*/
package llm
