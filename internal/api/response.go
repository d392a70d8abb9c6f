// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/avandyck/retrospin/internal/logging"
)

// dataResponse wraps every successful payload. The optional Error field
// carries an advisory message when an enrichment collaborator was
// unavailable but the core result is still valid.
type dataResponse struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// errorResponse is the uniform failure shape.
type errorResponse struct {
	Error string `json:"error"`
}

// respondData writes a 200 response with the payload under "data".
func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, dataResponse{Data: data})
}

// respondDataAdvisory writes a successful response that additionally carries
// an advisory error. Used when optional enrichment degraded.
func respondDataAdvisory(w http.ResponseWriter, data any, advisory string) {
	writeJSON(w, http.StatusOK, dataResponse{Data: data, Error: advisory})
}

// respondError writes an error response with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}
