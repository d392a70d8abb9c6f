// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package api exposes the analytics operations over HTTP: JSON request
// parsing, query-parameter validation, response shaping, routing, and
// request instrumentation.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avandyck/retrospin/internal/analytics"
	"github.com/avandyck/retrospin/internal/cache"
	"github.com/avandyck/retrospin/internal/catalog"
	"github.com/avandyck/retrospin/internal/config"
	"github.com/avandyck/retrospin/internal/importer"
	"github.com/avandyck/retrospin/internal/logging"
	"github.com/avandyck/retrospin/internal/models"
)

// CatalogClient is the optional metadata-enrichment collaborator. A nil
// client disables enrichment entirely.
type CatalogClient interface {
	GetTrackMetadata(ctx context.Context, trackID string) (*models.TrackMetadata, error)
	SearchArtist(ctx context.Context, name string) (*models.ArtistInfo, error)
}

// Pinger reports event-store connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for the API handlers. Methods are split
// across files by concern: import, calendar, patterns, drift, lookback,
// health.
type Handler struct {
	config    *config.Config
	importer  *importer.Importer
	calendar  *analytics.Calendar
	patterns  *analytics.Patterns
	drift     *analytics.Drift
	lookback  *analytics.Lookback
	catalog   CatalogClient
	pool      *catalog.Pool
	store     Pinger
	cache     *cache.Cache
	startTime time.Time
}

// NewHandler creates the API handler. catalogClient may be nil when no
// catalog service is configured.
func NewHandler(
	cfg *config.Config,
	imp *importer.Importer,
	cal *analytics.Calendar,
	pat *analytics.Patterns,
	drift *analytics.Drift,
	look *analytics.Lookback,
	catalogClient CatalogClient,
	store Pinger,
) *Handler {
	return &Handler{
		config:    cfg,
		importer:  imp,
		calendar:  cal,
		patterns:  pat,
		drift:     drift,
		lookback:  look,
		catalog:   catalogClient,
		pool:      catalog.NewPool(cfg.Catalog.Concurrency),
		store:     store,
		cache:     cache.New(5 * time.Minute),
		startTime: time.Now(),
	}
}

// yearParam parses the "year" query parameter. required distinguishes the
// heatmap/summary/silences operations (year mandatory) from the
// distribution operations (absent year means all history, returned as 0).
func yearParam(r *http.Request, required bool) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		if required {
			return 0, errors.New("year parameter is required")
		}
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("year parameter must be an integer")
	}
	return year, nil
}

// handleAnalyticsError maps component errors to HTTP statuses: invalid
// input is the client's fault, everything else is a 500.
func handleAnalyticsError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidYear *analytics.InvalidYearError
	if errors.As(err, &invalidYear) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	logging.Error().Err(err).Str("path", r.URL.Path).Msg("Analytics request failed")
	respondError(w, http.StatusInternalServerError, "internal server error")
}
