// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/avandyck/retrospin/internal/models"
)

const (
	// CapsuleMaxYears is how far back the time capsule looks.
	CapsuleMaxYears = 5

	// DormantMinMs is the minimum cumulative listened time (2 hours) for
	// an artist to qualify as dormant rather than merely sampled.
	DormantMinMs = 2 * 60 * 60 * 1000

	// DormantWindowDays is the recency window: an artist with any play
	// inside it is not dormant.
	DormantWindowDays = 180

	// DormantLimit caps the dormant-artist result.
	DormantLimit = 20
)

// LookbackStore is the event-store surface the lookback finder needs.
type LookbackStore interface {
	TracksOnDay(ctx context.Context, userID string, day time.Time) ([]models.CapsuleTrack, error)
	DormantArtists(ctx context.Context, userID string, minMs int64, cutoff time.Time, limit int) ([]models.DormantArtist, error)
}

// Lookback answers anniversary and dormancy queries.
type Lookback struct {
	store LookbackStore
	now   func() time.Time
}

// NewLookback creates a lookback finder.
func NewLookback(store LookbackStore) *Lookback {
	return &Lookback{store: store, now: time.Now}
}

// TimeCapsule queries plays on the exact calendar date N years before
// today, for N in 1..CapsuleMaxYears, aggregated per track. Years with no
// matching plays are omitted entirely; output preserves ascending-N order.
//
// Feb 29 anniversaries normalize to Mar 1 in non-leap years, following Go
// date arithmetic.
func (l *Lookback) TimeCapsule(ctx context.Context, userID string, today time.Time) ([]models.CapsuleEntry, error) {
	today = today.UTC()

	entries := []models.CapsuleEntry{}
	for yearsAgo := 1; yearsAgo <= CapsuleMaxYears; yearsAgo++ {
		day := today.AddDate(-yearsAgo, 0, 0)
		tracks, err := l.store.TracksOnDay(ctx, userID, day)
		if err != nil {
			return nil, fmt.Errorf("time capsule (%d years ago): %w", yearsAgo, err)
		}
		if len(tracks) == 0 {
			continue
		}
		entries = append(entries, models.CapsuleEntry{YearsAgo: yearsAgo, Tracks: tracks})
	}
	return entries, nil
}

// DormantArtists returns artists with meaningful cumulative listening time
// and no play within the recency window. Empty when none qualify.
func (l *Lookback) DormantArtists(ctx context.Context, userID string) ([]models.DormantArtist, error) {
	cutoff := l.now().UTC().AddDate(0, 0, -DormantWindowDays)
	artists, err := l.store.DormantArtists(ctx, userID, DormantMinMs, cutoff, DormantLimit)
	if err != nil {
		return nil, fmt.Errorf("dormant artists: %w", err)
	}
	if artists == nil {
		artists = []models.DormantArtist{}
	}
	return artists, nil
}
