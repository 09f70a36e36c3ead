// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package recommend ranks catalog items against a user's stated taste.

A ranking request carries liked and disliked anime ids, ids to exclude,
mood tags, an NSFW flag, a result limit and optional free text. The
pipeline runs in four stages:

 1. Aggregation (Aggregator): free text is handed to a
    PreferenceExtractor, which returns liked and disliked title
    mentions, catalog tags and mood phrases. Titles are resolved to ids
    by the Resolver and merged into the explicit signals. The mood
    phrases become the semantic query, which an Embedder turns into a
    vector.
 2. Filtering (FilterCandidates): liked, disliked and excluded ids are
    removed, and NSFW items unless allowed.
 3. Scoring (Scorer): each candidate gets a blend of three signals:

    tag      overlap with the liked tag pool, minus a penalty per
    disliked tag, plus a boost per requested mood
    liked    cosine similarity to the mean liked embedding
    query    cosine similarity to the semantic query embedding

    Candidates with a non-positive blend are dropped, the rest are
    divided by the best score and sorted. Equal scores keep catalog
    order.
 4. Projection: the top results are returned with their shared tags.

# Caching

Engine.Recommend keys results on the endpoint and the canonical form of
the request (sorted id sets, normalized moods). The cache is cleared
whenever the catalog snapshot changes:

	refresher.OnRefresh(func(*catalog.Snapshot) { engine.InvalidateCache() })

# Errors

Unknown liked or disliked ids fail with *InvalidReferenceError. A failed
query embedding fails with an error wrapping ErrExternalService. A failed
preference extraction does not fail the request: the free text is used
verbatim as the semantic query.

# Thread Safety

Snapshots are immutable and every request reads exactly one. Engine,
Aggregator, Resolver and Scorer hold no mutable state apart from the
result cache, which is safe for concurrent use.
*/
package recommend
