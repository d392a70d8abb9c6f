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
	// TopArtistCount is the per-month artist ranking depth.
	TopArtistCount = 10

	// DriftListLimit caps the rising and fading sets.
	DriftListLimit = 3

	// risingRatio: a returning artist is rising when its current play
	// count exceeds 1.5x its previous-month count.
	risingRatio = 1.5

	// MosaicAlbumsPerMonth caps albums per month in the mosaic.
	MosaicAlbumsPerMonth = 6
)

// DriftStore is the event-store surface the drift analyzer needs.
type DriftStore interface {
	TopArtists(ctx context.Context, userID string, from, to time.Time, limit int) ([]models.ArtistPlays, error)
	MonthStats(ctx context.Context, userID string, from, to time.Time) (models.MonthStats, error)
	ArtistMonthly(ctx context.Context, userID, artist string) ([]models.ArtistMonth, error)
	AlbumsByMonth(ctx context.Context, userID string) ([]models.AlbumMonthRow, error)
}

// Drift compares month-over-month listening and tracks per-artist curves.
type Drift struct {
	store DriftStore
}

// NewDrift creates a drift and obsession analyzer.
func NewDrift(store DriftStore) *Drift {
	return &Drift{store: store}
}

// Report compares the calendar month containing now against the previous
// calendar month. Empty months yield empty artist lists and zeroed stats,
// never an error.
func (d *Drift) Report(ctx context.Context, userID string, now time.Time) (*models.DriftReport, error) {
	now = now.UTC()
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextStart := curStart.AddDate(0, 1, 0)
	prevStart := curStart.AddDate(0, -1, 0)

	current, err := d.snapshot(ctx, userID, curStart, nextStart)
	if err != nil {
		return nil, fmt.Errorf("drift report (current month): %w", err)
	}
	previous, err := d.snapshot(ctx, userID, prevStart, curStart)
	if err != nil {
		return nil, fmt.Errorf("drift report (previous month): %w", err)
	}

	report := &models.DriftReport{
		CurrentMonth: curStart.Format("2006-01"),
		PrevMonth:    prevStart.Format("2006-01"),
		Current:      current,
		Previous:     previous,
		Rising:       risingArtists(current.Artists, previous.Artists),
		Fading:       fadingArtists(current.Artists, previous.Artists),
	}
	return report, nil
}

// snapshot loads one month's top artists and whole-month stats.
func (d *Drift) snapshot(ctx context.Context, userID string, from, to time.Time) (models.MonthSnapshot, error) {
	artists, err := d.store.TopArtists(ctx, userID, from, to, TopArtistCount)
	if err != nil {
		return models.MonthSnapshot{}, err
	}
	if artists == nil {
		artists = []models.ArtistPlays{}
	}
	stats, err := d.store.MonthStats(ctx, userID, from, to)
	if err != nil {
		return models.MonthSnapshot{}, err
	}
	return models.MonthSnapshot{Artists: artists, Stats: stats}, nil
}

// risingArtists selects current-month top artists that are either new to
// the top list or have grown past the rising ratio, in current-month rank
// order, truncated to DriftListLimit.
func risingArtists(current, previous []models.ArtistPlays) []models.ArtistPlays {
	prevCounts := make(map[string]int64, len(previous))
	for _, a := range previous {
		prevCounts[a.ArtistName] = a.PlayCount
	}

	rising := []models.ArtistPlays{}
	for _, a := range current {
		prevCount, wasPresent := prevCounts[a.ArtistName]
		if !wasPresent || float64(a.PlayCount) > risingRatio*float64(prevCount) {
			rising = append(rising, a)
			if len(rising) == DriftListLimit {
				break
			}
		}
	}
	return rising
}

// fadingArtists selects previous-month top artists absent from the current
// top list, in previous-month rank order, truncated to DriftListLimit.
func fadingArtists(current, previous []models.ArtistPlays) []models.ArtistPlays {
	curPresent := make(map[string]struct{}, len(current))
	for _, a := range current {
		curPresent[a.ArtistName] = struct{}{}
	}

	fading := []models.ArtistPlays{}
	for _, a := range previous {
		if _, ok := curPresent[a.ArtistName]; !ok {
			fading = append(fading, a)
			if len(fading) == DriftListLimit {
				break
			}
		}
	}
	return fading
}

// ObsessionCurve returns one artist's month-by-month play curve over all
// history. A missing artist parameter returns an empty curve without
// touching the store; the caller simply has not chosen an artist yet.
func (d *Drift) ObsessionCurve(ctx context.Context, userID, artist string) (*models.ObsessionCurve, error) {
	curve := &models.ObsessionCurve{Artist: artist, Months: []models.ArtistMonth{}}
	if artist == "" {
		return curve, nil
	}

	months, err := d.store.ArtistMonthly(ctx, userID, artist)
	if err != nil {
		return nil, fmt.Errorf("obsession curve: %w", err)
	}
	if months != nil {
		curve.Months = months
	}
	return curve, nil
}

// AlbumMosaic groups whole-history album plays by month, keeping at most
// MosaicAlbumsPerMonth albums per month in store-ranked order.
func (d *Drift) AlbumMosaic(ctx context.Context, userID string) ([]models.AlbumMonth, error) {
	rows, err := d.store.AlbumsByMonth(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("album mosaic: %w", err)
	}

	mosaic := []models.AlbumMonth{}
	for _, row := range rows {
		if len(mosaic) == 0 || mosaic[len(mosaic)-1].Month != row.Month {
			mosaic = append(mosaic, models.AlbumMonth{Month: row.Month, Albums: []models.AlbumPlays{}})
		}
		month := &mosaic[len(mosaic)-1]
		if len(month.Albums) < MosaicAlbumsPerMonth {
			month.Albums = append(month.Albums, models.AlbumPlays{
				AlbumName:  row.AlbumName,
				ArtistName: row.ArtistName,
				PlayCount:  row.PlayCount,
			})
		}
	}
	return mosaic, nil
}
