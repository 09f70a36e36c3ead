// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is shared process-wide; it caches struct
metadata, reports failures by JSON field name, and registers the custom
"mood" tag used by ranking requests.

	type recommendRequest struct {
	    LikedIDs []int    `json:"liked_ids" validate:"max=200,dive,gt=0"`
	    Moods    []string `json:"moods" validate:"max=20,dive,mood"`
	    Query    string   `json:"query" validate:"max=1000"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	    return
	}

Every failure maps to the VALIDATION_ERROR code. A single failure carries
field, tag and value details; multiple failures are listed under "fields".
*/
package validation
