// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)

Recommendation Metrics:
  - recommend_duration_seconds: Ranking latency on cache misses (histogram)
  - recommend_candidates: Candidates surviving the filter (histogram)
  - recommend_results: Results returned (histogram)
  - recommend_rejected_total: Requests rejected before scoring (counter)

Cache Metrics (labelled by namespace):
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total

Catalog Metrics:
  - catalog_items, catalog_refresh_total, catalog_refresh_duration_seconds,
    catalog_last_refresh_timestamp, catalog_rows_normalized_total

Language Model Metrics:
  - llm_requests_total, llm_request_duration_seconds
  - embedding_cache_hits_total, embedding_cache_misses_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total

Event Metrics:
  - events_published_total, events_consumed_total

# Usage

	start := time.Now()
	results, err := engine.Recommend(ctx, req)
	metrics.RecordRecommendation("recommend", time.Since(start), candidates, len(results))
*/
package metrics
