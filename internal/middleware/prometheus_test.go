// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/animerank/internal/metrics"
)

func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/anime/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues("GET", "/api/anime/{id}", "404")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/api/anime/1", "/api/anime/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter); got != before+2 {
		t.Errorf("counter = %v, want %v", got, before+2)
	}
}

func TestPrometheusMetricsUnmatchedRoute(t *testing.T) {
	counter := metrics.APIRequestsTotal.WithLabelValues("GET", unmatchedRoute, "200")
	before := testutil.ToFloat64(counter)

	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/no/router", nil))

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != 0 {
		t.Errorf("active requests = %v after completion, want 0", got)
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := NewStatusRecorder(httptest.NewRecorder())
	if rec.Status() != http.StatusOK {
		t.Errorf("default status = %d, want 200", rec.Status())
	}

	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.Status() != http.StatusTeapot {
		t.Errorf("status = %d, want first written code 418", rec.Status())
	}
	if rec.Unwrap() == nil {
		t.Error("Unwrap should return the underlying writer")
	}
}
