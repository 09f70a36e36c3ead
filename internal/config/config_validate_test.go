// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Database.DSN = "postgres://localhost/anime"
	cfg.LLM.APIKey = "sk-test"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"duckdb without dsn", func(c *Config) { c.Database.Driver = "duckdb"; c.Database.DSN = "" }, ""},
		{"llm disabled without key", func(c *Config) { c.LLM.Enabled = false; c.LLM.APIKey = "" }, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad environment", func(c *Config) { c.Server.Environment = "staging" }, "ENVIRONMENT"},
		{"postgres without dsn", func(c *Config) { c.Database.DSN = "" }, "DATABASE_URL"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "DATABASE_DRIVER"},
		{"zero batch", func(c *Config) { c.Database.BatchSize = 0 }, "IMPORT_BATCH_SIZE"},
		{"zero embed dim", func(c *Config) { c.Catalog.EmbedDim = 0 }, "EMBED_DIM"},
		{"blank nsfw tag", func(c *Config) { c.Catalog.NSFWTags = []string{"hentai", " "} }, "NSFW_TAGS"},
		{"negative penalty", func(c *Config) { c.Recommend.DislikedPenalty = -1 }, "RECOMMEND_DISLIKED_PENALTY"},
		{"threshold above 100", func(c *Config) { c.Recommend.FuzzyThreshold = 101 }, "RECOMMEND_FUZZY_THRESHOLD"},
		{"max below default", func(c *Config) { c.Recommend.MaxLimit = 5 }, "RECOMMEND_MAX_LIMIT"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "CACHE_TTL"},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }, "REDIS_URL"},
		{"redis bad scheme", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.RedisURL = "http://localhost:6379"
		}, "REDIS_URL"},
		{"redis ok", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.RedisURL = "redis://localhost:6379/0"
		}, ""},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"llm missing key", func(c *Config) { c.LLM.APIKey = "" }, "OPENAI_API_KEY"},
		{"llm bad base url", func(c *Config) { c.LLM.BaseURL = "ftp://example.com" }, "OPENAI_BASE_URL"},
		{"llm temperature", func(c *Config) { c.LLM.Temperature = 3 }, "LLM_TEMPERATURE"},
		{"events bad url", func(c *Config) {
			c.Events.Enabled = true
			c.Events.URL = "http://localhost:4222"
		}, "NATS_URL"},
		{"events embedded ignores url", func(c *Config) {
			c.Events.Enabled = true
			c.Events.EmbeddedServer = true
			c.Events.URL = ""
		}, ""},
		{"events empty topic", func(c *Config) { c.Events.Topic = "" }, "EVENTS_TOPIC"},
		{"short jwt secret", func(c *Config) { c.Security.AdminJWTSecret = "short" }, "ADMIN_JWT_SECRET"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, "CORS_ORIGINS"},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNATSURL(t *testing.T) {
	valid := []string{"nats://localhost:4222", "tls://nats.example.com:4222", "ws://10.0.0.1:8080"}
	for _, u := range valid {
		if err := validateNATSURL(u); err != nil {
			t.Errorf("validateNATSURL(%q) unexpected error: %v", u, err)
		}
	}
	invalid := []string{"http://localhost:4222", "nats://", "://bad"}
	for _, u := range invalid {
		if err := validateNATSURL(u); err == nil {
			t.Errorf("validateNATSURL(%q) expected error", u)
		}
	}
}

func TestValidateHTTPBaseURL(t *testing.T) {
	if err := validateHTTPBaseURL("https://api.openai.com/v1", "X"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validateHTTPBaseURL("https://api.openai.com/v1?key=1", "X"); err == nil {
		t.Error("expected error for query parameters")
	}
	if err := validateHTTPBaseURL("https:///v1", "X"); err == nil {
		t.Error("expected error for missing host")
	}
}
