// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/animerank/config.yaml",
	"/etc/animerank/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultNSFWTags are the explicit tags hidden unless NSFW content is allowed.
var DefaultNSFWTags = []string{"hentai", "ecchi", "magical sex shift", "erotica"}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Driver:       "postgres",
			DSN:          "",
			MaxOpenConns: 5,
			PingTimeout:  5 * time.Second,
			AutoMigrate:  false,
			BatchSize:    50,
		},
		Catalog: CatalogConfig{
			RefreshInterval: 10 * time.Minute,
			EmbedDim:        1536,
			NSFWTags:        append([]string(nil), DefaultNSFWTags...),
		},
		Recommend: RecommendConfig{
			TagWeight:       0.35,
			LikedWeight:     0.25,
			QueryWeight:     0.40,
			DislikedPenalty: 0.15,
			MoodBoost:       0.05,
			FuzzyThreshold:  80,
			DefaultLimit:    10,
			MaxLimit:        100,
			RequestTimeout:  10 * time.Second,
		},
		Cache: CacheConfig{
			TTL:         60 * time.Second,
			Capacity:    10000,
			Backend:     "memory",
			RedisURL:    "",
			RedisPrefix: "animerank:",
		},
		LLM: LLMConfig{
			Enabled:           true,
			BaseURL:           "https://api.openai.com/v1",
			APIKey:            "",
			ChatModel:         "gpt-4o-mini",
			EmbeddingModel:    "text-embedding-3-small",
			Temperature:       0.3,
			MaxTokens:         250,
			Timeout:           20 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Events: EventsConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			EmbeddedPort:   4222,
			Topic:          "catalog.updated",
		},
		Security: SecurityConfig{
			CORSOrigins: []string{
				"https://animerecommend.com",
				"https://www.animerecommend.com",
			},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// DATABASE_URL -> database.dsn, OPENAI_API_KEY -> llm.api_key, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"catalog.nsfw_tags",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Names without an entry are ignored so unrelated variables never leak
// into the configuration.
var envMappings = map[string]string{
	// Server
	"http_port":          "server.port",
	"port":               "server.port",
	"http_host":          "server.host",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"environment":        "server.environment",

	// Database
	"database_driver":         "database.driver",
	"database_url":            "database.dsn",
	"database_max_open_conns": "database.max_open_conns",
	"database_ping_timeout":   "database.ping_timeout",
	"database_auto_migrate":   "database.auto_migrate",
	"import_batch_size":       "database.batch_size",

	// Catalog
	"catalog_refresh_interval": "catalog.refresh_interval",
	"embed_dim":                "catalog.embed_dim",
	"nsfw_tags":                "catalog.nsfw_tags",

	// Ranking
	"recommend_tag_weight":       "recommend.tag_weight",
	"recommend_liked_weight":     "recommend.liked_weight",
	"recommend_query_weight":     "recommend.query_weight",
	"recommend_disliked_penalty": "recommend.disliked_penalty",
	"recommend_mood_boost":       "recommend.mood_boost",
	"recommend_fuzzy_threshold":  "recommend.fuzzy_threshold",
	"recommend_default_limit":    "recommend.default_limit",
	"recommend_max_limit":        "recommend.max_limit",
	"recommend_request_timeout":  "recommend.request_timeout",

	// Cache
	"cache_ttl":          "cache.ttl",
	"cache_capacity":     "cache.capacity",
	"cache_backend":      "cache.backend",
	"redis_url":          "cache.redis_url",
	"cache_redis_prefix": "cache.redis_prefix",

	// Language model
	"llm_enabled":             "llm.enabled",
	"openai_base_url":         "llm.base_url",
	"openai_api_key":          "llm.api_key",
	"openai_chat_model":       "llm.chat_model",
	"openai_embedding_model":  "llm.embedding_model",
	"llm_temperature":         "llm.temperature",
	"llm_max_tokens":          "llm.max_tokens",
	"llm_timeout":             "llm.timeout",
	"llm_requests_per_second": "llm.requests_per_second",
	"llm_burst":               "llm.burst",
	"embedding_cache_path":    "llm.embedding_cache_path",

	// Events
	"nats_enabled":  "events.enabled",
	"nats_url":      "events.url",
	"nats_embedded": "events.embedded_server",
	"nats_port":     "events.embedded_port",
	"events_topic":  "events.topic",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"admin_jwt_secret":    "security.admin_jwt_secret",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DATABASE_URL -> database.dsn
//   - OPENAI_API_KEY -> llm.api_key
//   - EMBED_DIM -> catalog.embed_dim
//   - CACHE_TTL -> cache.ttl
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to the reloaded config.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
