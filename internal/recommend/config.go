// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package recommend

import "fmt"

// Weights blends the three similarity signals. They are expected to sum
// to roughly 1 but this is not enforced.
type Weights struct {
	Tag   float64 `json:"tag"`
	Liked float64 `json:"liked"`
	Query float64 `json:"query"`
}

// Config contains the ranking constants.
type Config struct {
	// Weights used by the ranking endpoints.
	Weights Weights

	// DislikedPenalty is subtracted from the tag score once per tag shared
	// with the disliked pool.
	DislikedPenalty float64

	// MoodBoost is added to the tag score once per requested mood the
	// candidate carries.
	MoodBoost float64

	// FuzzyThreshold is the minimum title similarity (0-100) for a fuzzy
	// title match.
	FuzzyThreshold float64

	// DefaultLimit applies when a request has no positive limit.
	DefaultLimit int

	// MaxLimit caps the requested limit.
	MaxLimit int
}

// DefaultConfig returns the production ranking constants.
func DefaultConfig() Config {
	return Config{
		Weights:         Weights{Tag: 0.35, Liked: 0.25, Query: 0.40},
		DislikedPenalty: 0.15,
		MoodBoost:       0.05,
		FuzzyThreshold:  80,
		DefaultLimit:    10,
		MaxLimit:        100,
	}
}

// ScorerDefaultWeights are the blend weights used when a caller scores
// without choosing weights.
var ScorerDefaultWeights = Weights{Tag: 0.25, Liked: 0.25, Query: 0.40}

// Validate checks the config for values the pipeline cannot use.
func (c Config) Validate() error {
	if c.Weights.Tag < 0 || c.Weights.Liked < 0 || c.Weights.Query < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if c.DislikedPenalty < 0 || c.MoodBoost < 0 {
		return fmt.Errorf("penalty and boost must be non-negative")
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy threshold must be within [0, 100], got %v", c.FuzzyThreshold)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max limit %d is below default limit %d", c.MaxLimit, c.DefaultLimit)
	}
	return nil
}

// effectiveLimit applies the default and the cap to a requested limit.
func (c Config) effectiveLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}
