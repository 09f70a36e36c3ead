// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package models defines the JSON shapes returned by the Animerank API.

Every endpoint under /api wraps its payload in [APIResponse]: a status of
"success" or "error", the data, response [Metadata] and, on failure, an
[APIError] with a stable machine-readable code. Catalog items and ranking
results are defined next to the code that produces them (catalog.Item,
catalog.Summary, recommend.ScoredResult); this package holds only the
envelope and the small endpoint-specific payloads.
*/
package models
