// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package api

import (
	"net/http"

	"github.com/avandyck/retrospin/internal/auth"
)

// Silences handles GET /api/v1/patterns/silences?year=.
func (h *Handler) Silences(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())
	year, err := yearParam(r, true)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.patterns.Silences(r.Context(), userID, year)
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}
	respondData(w, report)
}
