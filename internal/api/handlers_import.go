// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/avandyck/retrospin/internal/auth"
	"github.com/avandyck/retrospin/internal/importer"
	"github.com/avandyck/retrospin/internal/logging"
)

// ImportHistory handles POST /api/v1/import/history. The body is the raw
// streaming-export JSON array.
func (h *Handler) ImportHistory(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Import.MaxBodyBytes)
	var entries []importer.RawEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		respondError(w, http.StatusBadRequest, "malformed JSON payload: "+err.Error())
		return
	}

	result, err := h.importer.ImportHistory(r.Context(), userID, entries)
	if err != nil {
		var validation *importer.ValidationError
		if errors.As(err, &validation) {
			respondError(w, http.StatusBadRequest, validation.Error())
			return
		}
		logging.Error().Err(err).Str("user_id", userID).Msg("Import failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cache.Invalidate()
	respondData(w, result)
}

// DeleteHistory handles DELETE /api/v1/import/history.
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())

	result, err := h.importer.DeleteAllHistory(r.Context(), userID)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("History deletion failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cache.Invalidate()
	respondData(w, result)
}

// ImportStatus handles GET /api/v1/import/status.
func (h *Handler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())

	status, err := h.importer.Status(r.Context(), userID)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("Import status query failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, status)
}
