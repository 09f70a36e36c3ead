// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
Package config provides centralized configuration management for Animerank.

Configuration is layered with Koanf v2. Later sources override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, then config.yaml / config.yml in the
    working directory, then /etc/animerank/)
 3. Environment variables, mapped explicitly through envMappings

Unmapped environment variables are ignored.

# Configuration Structure

  - ServerConfig: HTTP listener (host, port, timeouts, environment)
  - DatabaseConfig: catalog store (postgres or duckdb), pool size, batch size
  - CatalogConfig: snapshot refresh interval, embedding dimension, NSFW tags
  - RecommendConfig: ranking weights, fuzzy title threshold, result limits
  - CacheConfig: result cache TTL, capacity, optional Redis backend
  - LLMConfig: embeddings and preference extraction service, rate limits
  - EventsConfig: catalog change notifications over NATS
  - SecurityConfig: CORS origins, per-IP rate limiting, admin JWT secret
  - LoggingConfig: zerolog level, format, caller info

# Key Environment Variables

Required in a default deployment:
  - DATABASE_URL: Postgres connection string
  - OPENAI_API_KEY: key for the embeddings and chat service

Commonly tuned:
  - DATABASE_DRIVER: postgres (default) or duckdb
  - EMBED_DIM: embedding length (default: 1536)
  - CACHE_TTL: result cache freshness window (default: 60s)
  - CACHE_BACKEND / REDIS_URL: share ranked results across replicas
  - RECOMMEND_*_WEIGHT: blend weights (default: 0.35 tag, 0.25 liked, 0.40 query)
  - RECOMMEND_FUZZY_THRESHOLD: title match cutoff, 0-100 (default: 80)
  - NATS_ENABLED / NATS_URL / NATS_EMBEDDED: catalog change events
  - CORS_ORIGINS: comma-separated allowed origins
  - LOG_LEVEL / LOG_FORMAT

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Addr())

# Validation

Validate runs per-section checks and returns the first failure. Messages
name the environment variable to fix.

# Thread Safety

Config is immutable after Load. WatchConfigFile reports file changes but
callers own any reload synchronization.
*/
package config
