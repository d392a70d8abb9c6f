// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package metrics provides Prometheus instrumentation for the API surface,
// the DuckDB event store, the importer, and the catalog client.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DBQueryDuration tracks DuckDB query latency per operation.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// APIRequestsTotal counts API requests by method, route, and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration tracks API request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// ImportEntriesTotal counts import entries by outcome: imported,
	// duplicate, too_short, no_track_name, no_spotify_uri, no_artist_name.
	ImportEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_entries_total",
			Help: "Total number of processed import entries by outcome",
		},
		[]string{"outcome"},
	)

	// CatalogLookupsTotal counts catalog lookups by outcome: ok, miss,
	// rate_limited, error.
	CatalogLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_lookups_total",
			Help: "Total number of catalog metadata lookups by outcome",
		},
		[]string{"outcome"},
	)

	// CacheHitsTotal counts analytics cache hits and misses.
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_cache_requests_total",
			Help: "Total analytics cache lookups by result",
		},
		[]string{"result"},
	)
)

// DBTimer observes the duration of one database operation.
type DBTimer struct {
	operation string
	table     string
	start     time.Time
}

// NewDBTimer starts a timer for a database operation.
func NewDBTimer(operation, table string) *DBTimer {
	return &DBTimer{operation: operation, table: table, start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer started.
func (t *DBTimer) ObserveDuration() {
	DBQueryDuration.WithLabelValues(t.operation, t.table).Observe(time.Since(t.start).Seconds())
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
