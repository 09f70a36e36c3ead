// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

// Package testinfra provides test infrastructure for integration testing.
//
// Containers are managed with testcontainers-go and built only with the
// integration tag:
//
//	func TestCatalogStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg.Container)
//
//	    store, err := catalog.OpenSQLStore(ctx, config.DatabaseConfig{
//	        Driver: "postgres",
//	        DSN:    pg.DSN,
//	    })
//	    // ...
//	}
//
// # Containers
//
//   - PostgresContainer: the production catalog store
//   - RedisContainer: the shared result cache backend
//
// # Mock Language Model
//
// MockLLMServer is an OpenAI-compatible httptest server available to every
// test. It returns deterministic embeddings, so rankings computed from it
// are stable across runs:
//
//	srv := testinfra.NewMockLLMServer(t)
//	client, err := llm.NewClient(&config.LLMConfig{BaseURL: srv.URL(), APIKey: "test"})
//
// # CI Considerations
//
// Container tests require Docker. They are skipped when Docker is not
// available, and first runs may need to pull images.
package testinfra
