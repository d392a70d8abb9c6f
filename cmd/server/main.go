// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package main is the entry point for the Retrospin server.
//
// Retrospin ingests a user's streaming-history export (one event per track
// play) and serves temporal-behavior analytics over it: calendar heatmaps,
// activity streaks, silence periods, hour/day/month distributions,
// month-over-month artist drift, per-artist obsession curves, and lookback
// (time-capsule and dormant-artist) queries.
//
// The server initializes components in order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, config.yaml, env)
//  2. Logging: zerolog, JSON or console format
//  3. Database: DuckDB event store
//  4. Catalog client: optional metadata enrichment with circuit breaker
//  5. HTTP server: chi router with graceful shutdown on SIGINT/SIGTERM
//
// Configuration examples:
//
//	export RETROSPIN_DATABASE_PATH=/data/retrospin.db
//	export RETROSPIN_AUTH_JWT_SECRET=$(openssl rand -base64 32)
//	export RETROSPIN_CATALOG_BASE_URL=https://catalog.example.com
//	export RETROSPIN_CATALOG_TOKEN=your-catalog-token
//	./retrospin
//
// Development without tokens:
//
//	export RETROSPIN_AUTH_DEV_USER_ID=dev
//	./retrospin
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avandyck/retrospin/internal/analytics"
	"github.com/avandyck/retrospin/internal/api"
	"github.com/avandyck/retrospin/internal/auth"
	"github.com/avandyck/retrospin/internal/catalog"
	"github.com/avandyck/retrospin/internal/config"
	"github.com/avandyck/retrospin/internal/database"
	"github.com/avandyck/retrospin/internal/importer"
	"github.com/avandyck/retrospin/internal/logging"
)

// catalogTokenEnv names the environment variable holding the catalog bearer
// token. Read per request so token rotation needs no restart.
const catalogTokenEnv = "RETROSPIN_CATALOG_TOKEN"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("dev_auth", cfg.Auth.DevUserID != "").
		Msg("Starting Retrospin")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	var catalogClient api.CatalogClient
	if cfg.Catalog.BaseURL != "" {
		catalogClient = catalog.NewClient(&cfg.Catalog, catalog.EnvTokenSource(catalogTokenEnv))
		logging.Info().Str("base_url", cfg.Catalog.BaseURL).Msg("Catalog enrichment enabled")
	} else {
		logging.Info().Msg("Catalog enrichment disabled (no base URL configured)")
	}

	handler := api.NewHandler(
		cfg,
		importer.New(db, cfg.Import.BatchSize),
		analytics.NewCalendar(db),
		analytics.NewPatterns(db),
		analytics.NewDrift(db),
		analytics.NewLookback(db),
		catalogClient,
		db,
	)
	router := api.NewRouter(handler, auth.NewMiddleware(&cfg.Auth))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Server stopped")
}
