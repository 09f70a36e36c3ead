// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/animerank/internal/middleware"
)

// healthRateMultiplier gives monitoring probes more headroom than clients.
const healthRateMultiplier = 10

// NewRouter configures all HTTP routes.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Applied to all routes, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(cfg)) // global so OPTIONS preflights are answered

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Route("/health", func(r chi.Router) {
			r.Use(rateLimit(cfg, cfg.RateLimitRequests*healthRateMultiplier))
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(cfg, cfg.RateLimitRequests))

			r.Post("/recommend", h.Recommend)
			r.Post("/recommend/more", h.RecommendMore)

			r.Get("/search", h.Search)
			r.Get("/anime/{id}", h.Anime)
			r.Get("/tags", h.Tags)
			r.Get("/config", h.Config)
			r.Get("/metadata", h.Metadata)
		})

		// Without a secret the admin routes do not exist and answer 404.
		if h.AdminEnabled() {
			r.Route("/admin", func(r chi.Router) {
				r.Use(rateLimit(cfg, cfg.RateLimitRequests))
				r.Use(h.jwtManager.RequireAdmin)
				r.Post("/refresh", h.AdminRefresh)
			})
		}
	})

	return r
}
