// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package api

import (
	"net/http"

	"github.com/avandyck/retrospin/internal/auth"
	"github.com/avandyck/retrospin/internal/cache"
)

// calendarKey identifies one cached calendar query.
type calendarKey struct {
	UserID string `json:"userId"`
	Year   int    `json:"year"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

// DailyHeatmap handles GET /api/v1/calendar/heatmap?year=&artist=.
func (h *Handler) DailyHeatmap(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())
	year, err := yearParam(r, true)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	artist := r.URL.Query().Get("artist")

	key := cache.GenerateKey("heatmap", calendarKey{UserID: userID, Year: year, Artist: artist})
	if cached, ok := h.cache.Get(key); ok {
		respondData(w, cached)
		return
	}

	days, err := h.calendar.DailyHeatmap(r.Context(), userID, year, artist)
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}

	h.cache.Set(key, days)
	respondData(w, days)
}

// HourlyDistribution handles GET /api/v1/calendar/hourly?year=&artist=&album=.
// An absent year means all history.
func (h *Handler) HourlyDistribution(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())
	year, err := yearParam(r, false)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := h.calendar.Hourly(r.Context(), userID, year, r.URL.Query().Get("artist"), r.URL.Query().Get("album"))
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}
	respondData(w, buckets)
}

// WeeklyDistribution handles GET /api/v1/calendar/weekly?year=&artist=&album=.
func (h *Handler) WeeklyDistribution(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())
	year, err := yearParam(r, false)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := h.calendar.Weekly(r.Context(), userID, year, r.URL.Query().Get("artist"), r.URL.Query().Get("album"))
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}
	respondData(w, buckets)
}

// MonthlyDistribution handles GET /api/v1/calendar/monthly?year=&artist=&album=.
func (h *Handler) MonthlyDistribution(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())
	year, err := yearParam(r, false)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := h.calendar.Monthly(r.Context(), userID, year, r.URL.Query().Get("artist"), r.URL.Query().Get("album"))
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}
	respondData(w, buckets)
}

// CalendarSummary handles GET /api/v1/calendar/summary?year=&artist=.
func (h *Handler) CalendarSummary(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())
	year, err := yearParam(r, true)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	artist := r.URL.Query().Get("artist")

	key := cache.GenerateKey("summary", calendarKey{UserID: userID, Year: year, Artist: artist})
	if cached, ok := h.cache.Get(key); ok {
		respondData(w, cached)
		return
	}

	summary, err := h.calendar.Summary(r.Context(), userID, year, artist)
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}

	h.cache.Set(key, summary)
	respondData(w, summary)
}
