// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/animerank/internal/auth"
	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/models"
)

// adminRefreshTimeout bounds an admin-triggered reload.
const adminRefreshTimeout = 2 * time.Minute

// AdminRefresh reloads the catalog and drops every cached response.
//
// @Summary Reload the catalog
// @Description Reloads the snapshot from the store and clears every cache namespace. Requires an admin bearer token.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.RefreshResponse}
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Failure 500 {object} models.APIResponse "Reload failed; the previous snapshot stays active"
// @Router /admin/refresh [post]
func (h *Handler) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	operator := ""
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		operator = claims.Subject
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRefreshTimeout)
	defer cancel()

	// Refresh hooks clear the caches, so count what they will drop first.
	held := h.cachedEntries()

	snap, err := h.catalog.Refresh(ctx)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "catalog reload failed", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("operator", logging.SanitizeText(operator)).
		Int("items", snap.Len()).
		Int("cache_entries", held).
		Msg("Catalog reloaded by admin")

	respondData(w, r, start, false, models.RefreshResponse{
		CatalogItems:        snap.Len(),
		SnapshotLoadedAt:    snap.LoadedAt(),
		CacheEntriesCleared: held,
	})
}

func (h *Handler) cachedEntries() int {
	return h.engine.CachedResults() + h.tags.Len() + h.configs.Len() + h.metadata.Len()
}
