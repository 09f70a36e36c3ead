// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	LLM       LLMConfig       `koanf:"llm"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development" or "production"
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds catalog store settings.
type DatabaseConfig struct {
	// Driver selects the SQL dialect: "postgres" or "duckdb".
	Driver string `koanf:"driver"`

	// DSN is the connection string. For duckdb it is a file path, or empty
	// for an in-memory database.
	DSN string `koanf:"dsn"`

	MaxOpenConns int           `koanf:"max_open_conns"`
	PingTimeout  time.Duration `koanf:"ping_timeout"`

	// AutoMigrate creates the anime table on startup when missing.
	AutoMigrate bool `koanf:"auto_migrate"`

	// BatchSize is the number of rows per upsert batch during ingestion.
	BatchSize int `koanf:"batch_size"`
}

// CatalogConfig holds snapshot loading settings.
type CatalogConfig struct {
	// RefreshInterval is how often the snapshot is reloaded from the store.
	// Zero disables periodic reloads (events and the admin endpoint still work).
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// EmbedDim is the expected embedding length. Stored vectors of any
	// other length are dropped at load time.
	EmbedDim int `koanf:"embed_dim"`

	// NSFWTags is the single source of truth for tags hidden from the
	// vocabulary unless NSFW content is allowed.
	NSFWTags []string `koanf:"nsfw_tags"`
}

// RecommendConfig holds the ranking constants. They have no documented
// derivation and are therefore tunable.
type RecommendConfig struct {
	TagWeight       float64       `koanf:"tag_weight"`
	LikedWeight     float64       `koanf:"liked_weight"`
	QueryWeight     float64       `koanf:"query_weight"`
	DislikedPenalty float64       `koanf:"disliked_penalty"`
	MoodBoost       float64       `koanf:"mood_boost"`
	FuzzyThreshold  float64       `koanf:"fuzzy_threshold"`
	DefaultLimit    int           `koanf:"default_limit"`
	MaxLimit        int           `koanf:"max_limit"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`

	// Capacity bounds each namespace (LRU). Zero means unbounded.
	Capacity int `koanf:"capacity"`

	// Backend for ranked results: "memory" or "redis". The small catalog
	// views always stay in memory.
	Backend     string `koanf:"backend"`
	RedisURL    string `koanf:"redis_url"`
	RedisPrefix string `koanf:"redis_prefix"`
}

// LLMConfig holds the language model service settings used for embeddings
// and free-text preference extraction.
type LLMConfig struct {
	Enabled           bool          `koanf:"enabled"`
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	ChatModel         string        `koanf:"chat_model"`
	EmbeddingModel    string        `koanf:"embedding_model"`
	Temperature       float64       `koanf:"temperature"`
	MaxTokens         int           `koanf:"max_tokens"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`

	// EmbeddingCachePath enables the persistent embedding cache when set.
	EmbeddingCachePath string `koanf:"embedding_cache_path"`
}

// EventsConfig holds catalog change notification settings.
type EventsConfig struct {
	// Enabled routes events over NATS. When false an in-process channel is
	// used, which only connects ingestion and refresh inside one process.
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedPort   int    `koanf:"embedded_port"`
	Topic          string `koanf:"topic"`
}

// SecurityConfig holds CORS, rate limiting and admin authentication.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// AdminJWTSecret signs admin tokens (HS256). Empty disables admin routes.
	AdminJWTSecret string `koanf:"admin_jwt_secret"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
