// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation pipeline cost
// - Result cache efficiency per namespace
// - Catalog snapshot refreshes
// - Language model calls and their circuit breaker

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Time spent computing a ranking (cache misses only)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"endpoint"},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates",
			Help:    "Number of candidates left after filtering",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of ranked results returned",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	RecommendRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_rejected_total",
			Help: "Ranking requests rejected before scoring",
		},
		[]string{"reason"}, // "invalid_reference", "embedding_failed", "scoring_error"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"namespace"}, // "recommend", "tags", "config", "metadata"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"namespace"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"namespace"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"namespace", "reason"}, // reason: "expired", "capacity", "invalidated"
	)

	// Catalog Metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items in the active catalog snapshot",
		},
	)

	CatalogRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Catalog snapshot reloads",
		},
		[]string{"result"}, // "success", "failure"
	)

	CatalogRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Duration of a catalog snapshot reload",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_last_refresh_timestamp",
			Help: "Unix timestamp of the last successful catalog reload",
		},
	)

	CatalogRowsNormalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rows_normalized_total",
			Help: "Stored fields replaced with neutral defaults during snapshot load",
		},
		[]string{"field"}, // "title", "embedding", "main_picture"
	)

	// Language Model Metrics
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Requests sent to the language model service",
		},
		[]string{"operation", "result"}, // operation: "embedding", "chat"
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Language model request latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"operation"},
	)

	EmbeddingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_hits_total",
			Help: "Embeddings served from the persistent embedding cache",
		},
	)

	EmbeddingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_misses_total",
			Help: "Embeddings that had to be requested from the service",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Catalog events published",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Catalog events consumed",
		},
		[]string{"topic", "result"}, // result: "success", "failure"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one computed (uncached) ranking.
func RecordRecommendation(endpoint string, duration time.Duration, candidates, results int) {
	RecommendDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	RecommendCandidates.Observe(float64(candidates))
	RecommendResults.Observe(float64(results))
}

// RecordCatalogRefresh records the outcome of a snapshot reload.
func RecordCatalogRefresh(duration time.Duration, items int, err error) {
	CatalogRefreshDuration.Observe(duration.Seconds())
	if err != nil {
		CatalogRefreshTotal.WithLabelValues("failure").Inc()
		return
	}
	CatalogRefreshTotal.WithLabelValues("success").Inc()
	CatalogItems.Set(float64(items))
	CatalogLastRefresh.Set(float64(time.Now().Unix()))
}

// RecordLLMRequest records a call to the language model service.
func RecordLLMRequest(operation string, duration time.Duration, err error) {
	LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "failure"
	}
	LLMRequestsTotal.WithLabelValues(operation, result).Inc()
}

// RecordEventPublished records a publish attempt for a topic.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordEventConsumed records whether a consumed event was handled.
func RecordEventConsumed(topic string, err error) {
	EventsConsumed.WithLabelValues(topic, resultLabel(err)).Inc()
}

// StatusLabel formats an HTTP status code as a label value.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
