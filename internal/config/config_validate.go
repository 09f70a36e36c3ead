// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateCatalog,
		c.validateRecommend,
		c.validateCache,
		c.validateLLM,
		c.validateEvents,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
	case "duckdb":
		// Empty DSN opens an in-memory database.
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or duckdb, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("DATABASE_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.BatchSize < 1 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be positive, got %d", c.Database.BatchSize)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.EmbedDim < 1 {
		return fmt.Errorf("EMBED_DIM must be positive, got %d", c.Catalog.EmbedDim)
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must not be negative")
	}
	for _, tag := range c.Catalog.NSFWTags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("NSFW_TAGS must not contain empty entries")
		}
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	weights := map[string]float64{
		"RECOMMEND_TAG_WEIGHT":       r.TagWeight,
		"RECOMMEND_LIKED_WEIGHT":     r.LikedWeight,
		"RECOMMEND_QUERY_WEIGHT":     r.QueryWeight,
		"RECOMMEND_DISLIKED_PENALTY": r.DislikedPenalty,
		"RECOMMEND_MOOD_BOOST":       r.MoodBoost,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must not be negative, got %v", name, w)
		}
	}
	if r.FuzzyThreshold < 0 || r.FuzzyThreshold > 100 {
		return fmt.Errorf("RECOMMEND_FUZZY_THRESHOLD must be between 0 and 100, got %v", r.FuzzyThreshold)
	}
	if r.DefaultLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be positive, got %d", r.DefaultLimit)
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT (%d) must be at least RECOMMEND_DEFAULT_LIMIT (%d)", r.MaxLimit, r.DefaultLimit)
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("CACHE_CAPACITY must not be negative, got %d", c.Cache.Capacity)
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
		if err := validateRedisURL(c.Cache.RedisURL); err != nil {
			return fmt.Errorf("REDIS_URL is invalid: %w", err)
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", c.Cache.Backend)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if err := validateHTTPBaseURL(c.LLM.BaseURL, "OPENAI_BASE_URL"); err != nil {
		return err
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when LLM_ENABLED=true")
	}
	if c.LLM.ChatModel == "" || c.LLM.EmbeddingModel == "" {
		return fmt.Errorf("OPENAI_CHAT_MODEL and OPENAI_EMBEDDING_MODEL must be set")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.LLM.RequestsPerSecond <= 0 || c.LLM.Burst < 1 {
		return fmt.Errorf("LLM_REQUESTS_PER_SECOND and LLM_BURST must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC must not be empty")
	}
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.EmbeddedServer {
		if c.Events.EmbeddedPort < 1 || c.Events.EmbeddedPort > 65535 {
			return fmt.Errorf("NATS_PORT must be between 1 and 65535, got %d", c.Events.EmbeddedPort)
		}
		return nil
	}
	if err := validateNATSURL(c.Events.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if s := c.Security.AdminJWTSecret; s != "" && len(s) < 32 {
		return fmt.Errorf("ADMIN_JWT_SECRET must be at least 32 characters")
	}
	if c.Server.Environment == "production" {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
