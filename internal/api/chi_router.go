// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avandyck/retrospin/internal/auth"
)

// NewRouter wires all HTTP routes. Health and metrics are reachable without
// a token; every data route passes the user-resolution middleware.
func NewRouter(handler *Handler, authmw *auth.Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(300, time.Minute))
	r.Use(Instrument)

	r.Get("/api/v1/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authmw.Handler)

		r.Route("/import", func(r chi.Router) {
			r.Post("/history", handler.ImportHistory)
			r.Delete("/history", handler.DeleteHistory)
			r.Get("/status", handler.ImportStatus)
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/heatmap", handler.DailyHeatmap)
			r.Get("/hourly", handler.HourlyDistribution)
			r.Get("/weekly", handler.WeeklyDistribution)
			r.Get("/monthly", handler.MonthlyDistribution)
			r.Get("/summary", handler.CalendarSummary)
		})

		r.Get("/patterns/silences", handler.Silences)

		r.Route("/drift", func(r chi.Router) {
			r.Get("/", handler.DriftReport)
			r.Get("/obsession", handler.ObsessionCurve)
			r.Get("/albums", handler.AlbumMosaic)
		})

		r.Route("/lookback", func(r chi.Router) {
			r.Get("/capsule", handler.TimeCapsule)
			r.Get("/dormant", handler.DormantArtists)
		})
	})

	return r
}
