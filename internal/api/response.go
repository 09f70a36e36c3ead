// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/models"
	"github.com/tomtom215/animerank/internal/validation"
)

// Error codes for API responses.
const (
	ErrCodeValidation         = validation.ErrorCode
	ErrCodeInvalidReference   = "INVALID_REFERENCE"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeExternalService    = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusOK {
		w.Header().Set("ETag", generateETag(data))
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData sends a success envelope. start is when the handler began
// work and feeds query_time_ms.
func respondData(w http.ResponseWriter, r *http.Request, start time.Time, cached bool, data interface{}) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondError sends an error envelope. A non-nil err is logged with the
// request's logger; it never reaches the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Err(err).
			Str("code", apiErr.Code).
			Str("path", logging.SanitizeText(r.URL.Path)).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusError,
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// generateETag creates a weak ETag from data using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `W/"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "resource not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
}
