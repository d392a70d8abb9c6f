// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/avandyck/retrospin/internal/auth"
	"github.com/avandyck/retrospin/internal/catalog"
	"github.com/avandyck/retrospin/internal/logging"
	"github.com/avandyck/retrospin/internal/models"
)

// DriftReport handles GET /api/v1/drift. The current calendar month is
// compared against the previous one; genre tags for the current top artists
// are attached when the catalog is reachable.
func (h *Handler) DriftReport(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())

	report, err := h.drift.Report(r.Context(), userID, time.Now().UTC())
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}

	genres, advisory := h.lookupGenres(r.Context(), report.Current.Artists)
	report.Genres = genres
	if advisory != "" {
		respondDataAdvisory(w, report, advisory)
		return
	}
	respondData(w, report)
}

// lookupGenres resolves genre tags for the given artists through the
// bounded lookup pool. Catalog unavailability degrades to no genres plus an
// advisory message; per-artist misses are silently omitted.
func (h *Handler) lookupGenres(ctx context.Context, artists []models.ArtistPlays) ([]string, string) {
	if h.catalog == nil || len(artists) == 0 {
		return nil, ""
	}

	var unavailable atomic.Bool
	infos := catalog.Map(ctx, h.pool, artists, func(ctx context.Context, a models.ArtistPlays) (*models.ArtistInfo, error) {
		info, err := h.catalog.SearchArtist(ctx, a.ArtistName)
		if err != nil {
			if errors.Is(err, catalog.ErrLookupUnavailable) {
				unavailable.Store(true)
			}
			return nil, err
		}
		return info, nil
	})
	if unavailable.Load() {
		logging.Warn().Msg("Catalog unavailable, drift report served without genres")
		return nil, "genre lookup unavailable"
	}

	seen := map[string]struct{}{}
	genres := []string{}
	for _, info := range infos {
		for _, g := range info.Genres {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
	}
	sort.Strings(genres)
	return genres, ""
}

// ObsessionCurve handles GET /api/v1/drift/obsession?artist=.
func (h *Handler) ObsessionCurve(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())

	curve, err := h.drift.ObsessionCurve(r.Context(), userID, r.URL.Query().Get("artist"))
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}
	respondData(w, curve)
}

// AlbumMosaic handles GET /api/v1/drift/albums.
func (h *Handler) AlbumMosaic(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())

	mosaic, err := h.drift.AlbumMosaic(r.Context(), userID)
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}
	respondData(w, mosaic)
}
