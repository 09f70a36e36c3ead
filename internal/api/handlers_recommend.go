// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/models"
	"github.com/tomtom215/animerank/internal/recommend"
)

// Recommend handles ranking requests.
//
// @Summary Rank the catalog for a set of preferences
// @Description Blends tag overlap, liked-item similarity and free-text query similarity. Identical requests within the cache TTL return the cached ranking.
// @Tags Recommend
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Preferences"
// @Success 200 {object} models.APIResponse{data=[]recommend.ScoredResult} "Ranked results, best first"
// @Failure 400 {object} models.APIResponse "Validation error or unknown liked/disliked id"
// @Failure 502 {object} models.APIResponse "Embedding service failed"
// @Failure 503 {object} models.APIResponse "Catalog not loaded"
// @Failure 504 {object} models.APIResponse "Request timed out"
// @Router /recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, recommend.EndpointRecommend)
}

// RecommendMore handles "show more" ranking requests. It runs the same
// pipeline under its own cache keys; callers pass the ids already shown in
// exclude_ids.
//
// @Summary Rank more results
// @Description Same pipeline as /recommend with a separate cache. Pass previously shown ids in exclude_ids.
// @Tags Recommend
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Preferences"
// @Success 200 {object} models.APIResponse{data=[]recommend.ScoredResult} "Ranked results, best first"
// @Failure 400 {object} models.APIResponse "Validation error or unknown liked/disliked id"
// @Failure 502 {object} models.APIResponse "Embedding service failed"
// @Router /recommend/more [post]
func (h *Handler) RecommendMore(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, recommend.EndpointRecommendMore)
}

func (h *Handler) rank(w http.ResponseWriter, r *http.Request, endpoint string) {
	start := time.Now()

	if _, err := h.snapshot(); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog is still loading", nil)
		return
	}

	req, apiErr := decodeRecommendRequest(r, w)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	results, cached, err := h.engine.Recommend(ctx, endpoint, req.toDomain())
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = errors.Join(err, ctx.Err())
		}
		h.respondRankError(w, r, err)
		return
	}

	respondData(w, r, start, cached, results)
}

// respondRankError maps pipeline errors to HTTP statuses.
func (h *Handler) respondRankError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *recommend.InvalidReferenceError
	switch {
	case errors.As(err, &invalid):
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeInvalidReference,
			Message: invalid.Error(),
			Details: map[string]interface{}{"ids": invalid.IDs},
		}, nil)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "ranking timed out", err)
	case errors.Is(err, recommend.ErrExternalService):
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalService, "embedding service unavailable", err)
	case errors.Is(err, catalog.ErrNotLoaded):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog is still loading", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "ranking failed", err)
	}
}
