// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package middleware provides HTTP middleware for the Animerank API.

All middleware uses the standard func(http.Handler) http.Handler shape and
is mounted on the chi router:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

# RequestID

Assigns every request an ID (UUID v4, or a well-formed inbound X-Request-ID
from a proxy), echoes it in the response header and stores it on the
context. logging.Ctx picks it up so every log line of a ranking request
carries request_id.

# PrometheusMetrics

Records api_requests_total, api_request_duration_seconds and
api_active_requests. The endpoint label is the chi route pattern so path
parameters such as anime ids do not explode label cardinality.

# AccessLog

One zerolog line per request with method, route, status and duration.
*/
package middleware
