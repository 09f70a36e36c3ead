// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/animerank/internal/config"
)

// RouterConfig holds configuration for the CORS and rate limiting
// middleware.
type RouterConfig struct {
	CORSAllowedOrigins []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// RouterConfigFromSecurity bridges the security settings to the router.
func RouterConfigFromSecurity(sec config.SecurityConfig) RouterConfig {
	return RouterConfig{
		CORSAllowedOrigins: sec.CORSOrigins,
		CORSMaxAge:         86400,
		RateLimitRequests:  sec.RateLimitReqs,
		RateLimitWindow:    sec.RateLimitWindow,
		RateLimitDisabled:  sec.RateLimitDisabled,
	}
}

// corsMiddleware allows the configured frontends to call the API from the
// browser. Credentials are never needed; admin calls use bearer tokens.
func corsMiddleware(cfg RouterConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           cfg.CORSMaxAge,
	})
}

// rateLimit limits requests per client IP. The limit response uses the
// standard error envelope.
func rateLimit(cfg RouterConfig, requests int) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "rate limit exceeded", nil)
		}),
	)
}
