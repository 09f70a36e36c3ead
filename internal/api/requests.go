// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/models"
	"github.com/tomtom215/animerank/internal/recommend"
)

// maxBodyBytes bounds ranking request bodies.
const maxBodyBytes = 1 << 20

// RecommendRequest is the body of POST /api/recommend and
// /api/recommend/more. Unknown fields are ignored.
type RecommendRequest struct {
	LikedIDs    []int    `json:"liked_ids" validate:"max=200,dive,gt=0"`
	DislikedIDs []int    `json:"disliked_ids" validate:"max=200,dive,gt=0"`
	ExcludeIDs  []int    `json:"exclude_ids" validate:"max=2000,dive,gt=0"`
	Moods       []string `json:"moods" validate:"max=50,dive,mood"`
	NSFWOk      bool     `json:"nsfw_ok"`
	Limit       int      `json:"limit" validate:"gte=0"`
	Query       string   `json:"query" validate:"max=2000"`
}

// toDomain converts the body to an engine request.
func (req *RecommendRequest) toDomain() recommend.Request {
	return recommend.Request{
		LikedIDs:    req.LikedIDs,
		DislikedIDs: req.DislikedIDs,
		ExcludeIDs:  req.ExcludeIDs,
		Moods:       req.Moods,
		NSFWOk:      req.NSFWOk,
		Limit:       req.Limit,
		Query:       req.Query,
	}
}

// SearchRequest holds the query parameters of GET /api/search.
type SearchRequest struct {
	Query  string `query:"q" validate:"max=200"`
	Limit  int    `query:"limit" validate:"gte=1"`
	NSFWOk bool   `query:"nsfw_ok"`
}

// decodeRecommendRequest reads and validates a ranking body. An empty body
// is a request with every field at its default.
func decodeRecommendRequest(r *http.Request, w http.ResponseWriter) (*RecommendRequest, *models.APIError) {
	req := &RecommendRequest{}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return nil, &models.APIError{
			Code:    ErrCodeValidation,
			Message: "request body must be a JSON object: " + decodeErrorMessage(err),
		}
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

func decodeErrorMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit)
	}
	return err.Error()
}

// getIntParam extracts an integer query parameter with a default value.
// A present but malformed value is an error.
func getIntParam(r *http.Request, name string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// getBoolParam extracts a boolean query parameter. It accepts the forms
// strconv.ParseBool does.
func getBoolParam(r *http.Request, name string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", name)
	}
	return v, nil
}

// viewCacheKey keys a catalog view by the snapshot it was computed from, so
// a view built while the catalog was being replaced is never served after.
func viewCacheKey(snap *catalog.Snapshot, view string) string {
	return snap.Version() + ":" + view
}

// nsfwView names the per-flag variant of a view.
func nsfwView(nsfwOK bool) string {
	return "nsfw=" + strconv.FormatBool(nsfwOK)
}
