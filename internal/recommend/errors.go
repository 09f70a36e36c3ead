// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrExternalService wraps failures of the embedding service. A failed
	// query embedding rejects the request instead of scoring it as zero
	// similarity.
	ErrExternalService = errors.New("external service failure")

	// ErrDimensionMismatch is returned when two embeddings that must be
	// compared have different lengths.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// InvalidReferenceError rejects a request whose liked or disliked ids do
// not exist in the catalog.
type InvalidReferenceError struct {
	// IDs holds the offending ids, sorted and de-duplicated.
	IDs []int
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid anime IDs: %v", e.IDs)
}

// RejectReason labels an error for metrics. It returns "" for errors the
// pipeline does not classify.
func RejectReason(err error) string {
	var invalid *InvalidReferenceError
	switch {
	case errors.As(err, &invalid):
		return "invalid_reference"
	case errors.Is(err, ErrExternalService):
		return "embedding_failed"
	case errors.Is(err, ErrDimensionMismatch):
		return "scoring_error"
	default:
		return ""
	}
}
