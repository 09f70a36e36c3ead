// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/animerank/docs"
	"github.com/tomtom215/animerank/internal/api"
	"github.com/tomtom215/animerank/internal/auth"
	"github.com/tomtom215/animerank/internal/catalog"
	"github.com/tomtom215/animerank/internal/config"
	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/supervisor"
	"github.com/tomtom215/animerank/internal/supervisor/services"
)

const (
	// embeddingGCInterval is how often the on-disk embedding cache is
	// compacted.
	embeddingGCInterval = 30 * time.Minute

	// initialLoadTimeout bounds the catalog load before the server starts.
	initialLoadTimeout = 2 * time.Minute
)

// @title Animerank API
// @version 1.0
// @description Hybrid anime recommendation engine.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	adminToken := flag.String("admin-token", "", "print an admin bearer token for `subject` and exit")
	flag.Parse()

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if *adminToken != "" {
		if err := printAdminToken(cfg.Security.AdminJWTSecret, *adminToken); err != nil {
			logging.Fatal().Err(err).Msg("Failed to mint admin token")
		}
		return
	}

	os.Exit(run(cfg))
}

// run wires the server and blocks until shutdown. It returns the process
// exit code so deferred cleanup runs before exiting.
func run(cfg *config.Config) int {
	logging.Info().
		Str("version", api.Version).
		Str("db_driver", cfg.Database.Driver).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("llm_enabled", cfg.LLM.Enabled).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Animerank with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := catalog.OpenSQLStore(ctx, cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open catalog store")
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := store.EnsureSchema(ctx); err != nil {
			logging.Error().Err(err).Msg("Failed to create catalog schema")
			return 1
		}
	}

	refresher := catalog.NewRefresher(store, catalog.RefresherOptions{
		EmbedDim: cfg.Catalog.EmbedDim,
		NSFWTags: catalog.NewTagSet(cfg.Catalog.NSFWTags),
	})

	// A failed first load is not fatal: the API answers 503 until a
	// refresh succeeds.
	loadCtx, loadCancel := context.WithTimeout(ctx, initialLoadTimeout)
	if snap, err := refresher.Refresh(loadCtx); err != nil {
		logging.Warn().Err(err).Msg("Initial catalog load failed; serving 503 until a refresh succeeds")
	} else {
		logging.Info().Int("items", snap.Len()).Msg("Catalog loaded")
	}
	loadCancel()

	recommendComps, err := initRecommend(ctx, cfg, refresher)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize ranking engine")
		return 1
	}
	defer recommendComps.Close()

	var jwtManager *auth.JWTManager
	if cfg.Security.AdminJWTSecret != "" {
		jwtManager, err = auth.NewJWTManager(cfg.Security.AdminJWTSecret, 0)
		if err != nil {
			logging.Error().Err(err).Msg("Invalid admin JWT secret")
			return 1
		}
		logging.Info().Msg("Admin routes enabled")
	} else {
		logging.Info().Msg("Admin routes disabled (ADMIN_JWT_SECRET not set)")
	}

	handler, err := api.NewHandler(api.HandlerDeps{
		Catalog:    refresher,
		Engine:     recommendComps.Engine,
		JWTManager: jwtManager,
		Recommend:  cfg.Recommend,
		Cache:      cfg.Cache,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create API handler")
		return 1
	}

	// Every snapshot swap invalidates cached responses.
	refresher.OnRefresh(func(*catalog.Snapshot) { handler.InvalidateCaches() })

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, api.RouterConfigFromSecurity(cfg.Security)),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// Create structured logger for supervisor using our slog adapter
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return 1
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	if cfg.Catalog.RefreshInterval > 0 {
		tree.AddDataService(services.NewCatalogRefreshService(refresher, services.CatalogRefreshConfig{
			Interval: cfg.Catalog.RefreshInterval,
		}, logging.WithComponent("catalog-refresh")))
		logging.Info().Dur("interval", cfg.Catalog.RefreshInterval).Msg("Catalog refresh service added")
	}
	if recommendComps.EmbeddingCache != nil {
		tree.AddDataService(services.NewEmbeddingGCService(recommendComps.EmbeddingCache, embeddingGCInterval, logging.WithComponent("embedding-gc")))
	}

	// Messaging layer services
	eventsComps, err := initEvents(cfg, refresher, tree)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize catalog events")
		return 1
	}
	defer eventsComps.Close()

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel delivers Serve's result once.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
		cancel()
	}

	exitCode := 0
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
		exitCode = 1
	}

	tree.LogUnstopped()

	logging.Info().Msg("Application stopped gracefully")
	return exitCode
}

// printAdminToken writes a signed admin token for subject to stdout.
func printAdminToken(secret, subject string) error {
	if secret == "" {
		return errors.New("ADMIN_JWT_SECRET is not set")
	}
	manager, err := auth.NewJWTManager(secret, 0)
	if err != nil {
		return err
	}
	token, err := manager.GenerateToken(subject)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
