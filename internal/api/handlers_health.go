// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/animerank/internal/models"
)

// Health handles health check requests.
//
// @Summary Service health
// @Description Always 200 while the process serves requests. Reports the size and load time of the active snapshot.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthResponse}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	resp := models.HealthResponse{OK: true, Version: Version}
	if h.catalog.Loaded() {
		snap := h.catalog.Current()
		loadedAt := snap.LoadedAt()
		resp.CatalogItems = snap.Len()
		resp.SnapshotLoadedAt = &loadedAt
	}

	respondData(w, r, start, false, resp)
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, time.Now(), false, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only once the first catalog snapshot has loaded.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse "Catalog not loaded yet"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.catalog.Loaded() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog is still loading", nil)
		return
	}

	respondData(w, r, time.Now(), false, map[string]interface{}{
		"ready":         true,
		"catalog_items": h.catalog.Current().Len(),
	})
}
