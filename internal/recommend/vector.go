// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import (
	"fmt"
	"math"
)

// cosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector has zero norm. Vectors of different lengths are an
// error rather than a zero similarity.
func cosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// meanVector returns the element-wise mean of vecs, or nil when vecs is
// empty. All vectors must have the same length.
func meanVector(vecs [][]float64) ([]float64, error) {
	if len(vecs) == 0 {
		return nil, nil
	}

	mean := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		if len(v) != len(mean) {
			return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(v), len(mean))
		}
		for i, x := range v {
			mean[i] += x
		}
	}

	n := float64(len(vecs))
	for i := range mean {
		mean[i] /= n
	}
	return mean, nil
}

// round4 rounds to 4 decimal places.
func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
