// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package api

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/avandyck/retrospin/internal/auth"
	"github.com/avandyck/retrospin/internal/catalog"
	"github.com/avandyck/retrospin/internal/logging"
	"github.com/avandyck/retrospin/internal/models"
)

// TimeCapsule handles GET /api/v1/lookback/capsule. Album art is attached
// per track when the catalog is reachable; catalog unavailability degrades
// to art-less tracks plus an advisory error.
func (h *Handler) TimeCapsule(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())

	entries, err := h.lookback.TimeCapsule(r.Context(), userID, time.Now().UTC())
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}

	advisory := h.attachAlbumArt(r.Context(), entries)
	if advisory != "" {
		respondDataAdvisory(w, entries, advisory)
		return
	}
	respondData(w, entries)
}

// artResult pairs a track id with its resolved art URL.
type artResult struct {
	trackID string
	art     string
}

// attachAlbumArt fills CapsuleTrack.AlbumArt in place through the bounded
// lookup pool. Per-track lookup failures leave that track without art.
func (h *Handler) attachAlbumArt(ctx context.Context, entries []models.CapsuleEntry) string {
	if h.catalog == nil {
		return ""
	}

	trackIDs := []string{}
	seen := map[string]struct{}{}
	for _, entry := range entries {
		for _, t := range entry.Tracks {
			if _, ok := seen[t.TrackID]; ok {
				continue
			}
			seen[t.TrackID] = struct{}{}
			trackIDs = append(trackIDs, t.TrackID)
		}
	}
	if len(trackIDs) == 0 {
		return ""
	}

	var unavailable atomic.Bool
	results := catalog.Map(ctx, h.pool, trackIDs, func(ctx context.Context, id string) (artResult, error) {
		meta, err := h.catalog.GetTrackMetadata(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrLookupUnavailable) {
				unavailable.Store(true)
			}
			return artResult{}, err
		}
		return artResult{trackID: id, art: meta.AlbumArt}, nil
	})
	if unavailable.Load() {
		logging.Warn().Msg("Catalog unavailable, time capsule served without album art")
		return "album art lookup unavailable"
	}

	artByTrack := make(map[string]string, len(results))
	for _, res := range results {
		artByTrack[res.trackID] = res.art
	}
	for ei := range entries {
		for ti := range entries[ei].Tracks {
			track := &entries[ei].Tracks[ti]
			track.AlbumArt = artByTrack[track.TrackID]
		}
	}
	return ""
}

// DormantArtists handles GET /api/v1/lookback/dormant.
func (h *Handler) DormantArtists(w http.ResponseWriter, r *http.Request) {
	userID := auth.CurrentUserID(r.Context())

	artists, err := h.lookback.DormantArtists(r.Context(), userID)
	if err != nil {
		handleAnalyticsError(w, r, err)
		return
	}
	respondData(w, artists)
}
