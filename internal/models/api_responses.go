// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope every /api endpoint returns.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"anime": {...}, "score": 1.0, "reason": {...}}],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "INVALID_REFERENCE", "message": "invalid anime IDs: [999]"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and cache information.
//
// Cached responses report Cached=true; QueryTimeMS covers the handler's work
// including LLM calls on a miss.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable failure.
//
// Codes:
//   - VALIDATION_ERROR: malformed request body or parameters
//   - INVALID_REFERENCE: liked or disliked ids not in the catalog
//   - NOT_FOUND: unknown anime id or disabled endpoint
//   - EXTERNAL_SERVICE_ERROR: the embedding service failed
//   - TIMEOUT: the request exceeded its deadline
//   - UNAUTHORIZED: missing or invalid admin token
//   - SERVICE_UNAVAILABLE: catalog not loaded yet
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
