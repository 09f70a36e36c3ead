// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/models"
)

// Search handles title search.
//
// @Summary Search titles
// @Description Case-insensitive title search. Items with a title starting with q come first, then items containing q, each group in catalog order. A blank q returns an empty list.
// @Tags Catalog
// @Produce json
// @Param q query string false "Search text"
// @Param limit query int false "Maximum results (default 10, max 100)"
// @Param nsfw_ok query bool false "Include NSFW items"
// @Success 200 {object} models.APIResponse{data=[]catalog.Summary}
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Router /search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, ok := h.requireSnapshot(w, r)
	if !ok {
		return
	}

	limit, err := getIntParam(r, "limit", h.defaultLimit)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	nsfwOK, err := getBoolParam(r, "nsfw_ok", false)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	req := SearchRequest{Query: r.URL.Query().Get("q"), Limit: limit, NSFWOk: nsfwOK}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	if req.Limit > h.maxLimit {
		req.Limit = h.maxLimit
	}

	items := snap.Search(req.Query, req.Limit, req.NSFWOk)
	out := make([]catalog.Summary, len(items))
	for i, it := range items {
		out[i] = it.Summary()
	}

	respondData(w, r, start, false, out)
}

// Anime returns one catalog item.
//
// @Summary Get an anime by id
// @Tags Catalog
// @Produce json
// @Param id path int true "Anime id"
// @Success 200 {object} models.APIResponse{data=catalog.Detail}
// @Failure 400 {object} models.APIResponse "Malformed id"
// @Failure 404 {object} models.APIResponse "Unknown id"
// @Router /anime/{id} [get]
func (h *Handler) Anime(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, ok := h.requireSnapshot(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "id must be an integer", nil)
		return
	}

	item, found := snap.ByID(id)
	if !found {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "anime not found", nil)
		return
	}

	respondData(w, r, start, false, item.Detail())
}

// Tags returns the tag vocabulary.
//
// @Summary List tags
// @Description Distinct tags in their first-seen spelling, sorted case-insensitively. NSFW tags are omitted unless nsfw_ok is set.
// @Tags Catalog
// @Produce json
// @Param nsfw_ok query bool false "Include NSFW tags"
// @Success 200 {object} models.APIResponse{data=models.TagsResponse}
// @Router /tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, ok := h.requireSnapshot(w, r)
	if !ok {
		return
	}
	nsfwOK, err := getBoolParam(r, "nsfw_ok", false)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	tags, cached, err := h.tags.GetOrLoad(viewCacheKey(snap, nsfwView(nsfwOK)), func() ([]string, error) {
		return snap.Vocabulary(nsfwOK), nil
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "failed to build tag list", err)
		return
	}

	respondData(w, r, start, cached, models.TagsResponse{Tags: tags})
}

// Config returns the data the frontend needs to build its filters.
//
// @Summary Frontend configuration
// @Tags Catalog
// @Produce json
// @Param nsfw_ok query bool false "Include NSFW tags"
// @Success 200 {object} models.APIResponse{data=models.ConfigResponse}
// @Router /config [get]
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, ok := h.requireSnapshot(w, r)
	if !ok {
		return
	}
	nsfwOK, err := getBoolParam(r, "nsfw_ok", false)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	resp, cached, err := h.configs.GetOrLoad(viewCacheKey(snap, nsfwView(nsfwOK)), func() (models.ConfigResponse, error) {
		meta := snap.Metadata()
		return models.ConfigResponse{
			Tags:         snap.Vocabulary(nsfwOK),
			TotalEntries: meta.TotalEntries,
			LastUpdated:  meta.LastUpdated,
		}, nil
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "failed to build config", err)
		return
	}

	respondData(w, r, start, cached, resp)
}

// Metadata returns catalog totals.
//
// @Summary Catalog metadata
// @Description Number of entries and the newest last_updated timestamp (null when no row has one).
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.CatalogMetadata}
// @Router /metadata [get]
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, ok := h.requireSnapshot(w, r)
	if !ok {
		return
	}

	meta, cached, err := h.metadata.GetOrLoad(viewCacheKey(snap, "global"), func() (models.CatalogMetadata, error) {
		m := snap.Metadata()
		return models.CatalogMetadata{TotalEntries: m.TotalEntries, LastUpdated: m.LastUpdated}, nil
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "failed to build metadata", err)
		return
	}

	respondData(w, r, start, cached, meta)
}

func (h *Handler) requireSnapshot(w http.ResponseWriter, r *http.Request) (*catalog.Snapshot, bool) {
	snap, err := h.snapshot()
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog is still loading", nil)
		return nil, false
	}
	return snap, true
}
