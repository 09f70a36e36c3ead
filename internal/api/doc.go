// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package api serves the ranking engine and catalog views over HTTP.

Routes (chi):

	POST /api/recommend          rank the catalog for a set of preferences
	POST /api/recommend/more     same pipeline, separate cache keys
	GET  /api/search             title search (prefix matches first)
	GET  /api/anime/{id}         one catalog item
	GET  /api/tags               tag vocabulary, cached per nsfw flag
	GET  /api/config             tags plus catalog totals, cached per nsfw flag
	GET  /api/metadata           catalog totals, cached
	GET  /api/health[/live|/ready]
	POST /api/admin/refresh      reload the snapshot (admin JWT, only when configured)
	GET  /metrics                Prometheus
	GET  /swagger/*              OpenAPI UI

Every /api response uses the models.APIResponse envelope. Errors carry a
machine-readable code:

	400 VALIDATION_ERROR        malformed body or parameters
	400 INVALID_REFERENCE       liked or disliked id not in the catalog
	404 NOT_FOUND               unknown item or route
	502 EXTERNAL_SERVICE_ERROR  the embedding service failed
	503 SERVICE_UNAVAILABLE     no snapshot loaded yet
	504 TIMEOUT                 ranking exceeded recommend.request_timeout

The catalog views are cached in memory for cache.ttl and cleared, together
with the ranking cache, whenever a new snapshot is published
(Handler.InvalidateCaches is registered as a refresh hook).
*/
package api
