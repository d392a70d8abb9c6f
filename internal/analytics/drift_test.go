// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/avandyck/retrospin/internal/models"
)

// fakeDriftStore serves per-range artist rankings keyed by range start.
type fakeDriftStore struct {
	artistsByFrom map[string][]models.ArtistPlays
	statsByFrom   map[string]models.MonthStats
	monthly       []models.ArtistMonth
	monthlyCalls  int
	albums        []models.AlbumMonthRow
}

func (f *fakeDriftStore) TopArtists(ctx context.Context, userID string, from, to time.Time, limit int) ([]models.ArtistPlays, error) {
	return f.artistsByFrom[from.Format("2006-01")], nil
}

func (f *fakeDriftStore) MonthStats(ctx context.Context, userID string, from, to time.Time) (models.MonthStats, error) {
	return f.statsByFrom[from.Format("2006-01")], nil
}

func (f *fakeDriftStore) ArtistMonthly(ctx context.Context, userID, artist string) ([]models.ArtistMonth, error) {
	f.monthlyCalls++
	return f.monthly, nil
}

func (f *fakeDriftStore) AlbumsByMonth(ctx context.Context, userID string) ([]models.AlbumMonthRow, error) {
	return f.albums, nil
}

func artists(pairs ...any) []models.ArtistPlays {
	out := []models.ArtistPlays{}
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.ArtistPlays{
			ArtistName: pairs[i].(string),
			PlayCount:  int64(pairs[i+1].(int)),
		})
	}
	return out
}

func TestDriftReportRisingAndFading(t *testing.T) {
	store := &fakeDriftStore{
		artistsByFrom: map[string][]models.ArtistPlays{
			"2024-06": artists("New Act", 50, "Steady", 40, "Grown", 32),
			"2024-05": artists("Gone Act", 60, "Steady", 45, "Grown", 20),
		},
		statsByFrom: map[string]models.MonthStats{
			"2024-06": {TotalPlays: 122, TotalMs: 5000000, UniqueArtists: 3, UniqueTracks: 40},
			"2024-05": {TotalPlays: 125, TotalMs: 5100000, UniqueArtists: 3, UniqueTracks: 42},
		},
	}
	d := NewDrift(store)

	report, err := d.Report(context.Background(), "u1", time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if report.CurrentMonth != "2024-06" || report.PrevMonth != "2024-05" {
		t.Errorf("months = %s / %s", report.CurrentMonth, report.PrevMonth)
	}

	// New Act is new to the top list; Grown went 20 -> 32 (> 1.5x).
	// Steady went 45 -> 40, neither new nor grown.
	if len(report.Rising) != 2 {
		t.Fatalf("rising = %+v, want 2 entries", report.Rising)
	}
	if report.Rising[0].ArtistName != "New Act" || report.Rising[1].ArtistName != "Grown" {
		t.Errorf("rising order = %+v", report.Rising)
	}

	if len(report.Fading) != 1 || report.Fading[0].ArtistName != "Gone Act" {
		t.Errorf("fading = %+v", report.Fading)
	}

	if report.Current.Stats.TotalPlays != 122 || report.Previous.Stats.TotalPlays != 125 {
		t.Errorf("stats = %+v / %+v", report.Current.Stats, report.Previous.Stats)
	}
}

func TestDriftReportRatioBoundary(t *testing.T) {
	// Exactly 1.5x is not rising; the growth must exceed the ratio.
	store := &fakeDriftStore{
		artistsByFrom: map[string][]models.ArtistPlays{
			"2024-06": artists("Boundary", 30, "Over", 31),
			"2024-05": artists("Boundary", 20, "Over", 20),
		},
		statsByFrom: map[string]models.MonthStats{},
	}
	d := NewDrift(store)

	report, err := d.Report(context.Background(), "u1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if len(report.Rising) != 1 || report.Rising[0].ArtistName != "Over" {
		t.Errorf("rising = %+v, want only Over", report.Rising)
	}
}

func TestDriftReportTruncatesToThree(t *testing.T) {
	store := &fakeDriftStore{
		artistsByFrom: map[string][]models.ArtistPlays{
			"2024-06": artists("A", 50, "B", 40, "C", 30, "D", 20, "E", 10),
			"2024-05": artists("V", 50, "W", 40, "X", 30, "Y", 20, "Z", 10),
		},
		statsByFrom: map[string]models.MonthStats{},
	}
	d := NewDrift(store)

	report, err := d.Report(context.Background(), "u1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if len(report.Rising) != 3 {
		t.Errorf("rising has %d entries, want 3", len(report.Rising))
	}
	if len(report.Fading) != 3 {
		t.Errorf("fading has %d entries, want 3", len(report.Fading))
	}
	// Rank order preserved before truncation.
	if report.Rising[0].ArtistName != "A" || report.Fading[0].ArtistName != "V" {
		t.Errorf("rising[0]=%s fading[0]=%s", report.Rising[0].ArtistName, report.Fading[0].ArtistName)
	}
}

func TestDriftReportEmptyMonths(t *testing.T) {
	store := &fakeDriftStore{
		artistsByFrom: map[string][]models.ArtistPlays{},
		statsByFrom:   map[string]models.MonthStats{},
	}
	d := NewDrift(store)

	report, err := d.Report(context.Background(), "u1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report.Current.Artists == nil || len(report.Current.Artists) != 0 {
		t.Errorf("current artists = %v, want empty slice", report.Current.Artists)
	}
	if len(report.Rising) != 0 || len(report.Fading) != 0 {
		t.Errorf("rising/fading = %v / %v, want empty", report.Rising, report.Fading)
	}
}

func TestDriftReportJanuaryWrapsYear(t *testing.T) {
	store := &fakeDriftStore{
		artistsByFrom: map[string][]models.ArtistPlays{},
		statsByFrom:   map[string]models.MonthStats{},
	}
	d := NewDrift(store)

	report, err := d.Report(context.Background(), "u1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report.CurrentMonth != "2024-01" || report.PrevMonth != "2023-12" {
		t.Errorf("months = %s / %s", report.CurrentMonth, report.PrevMonth)
	}
}

func TestObsessionCurveNoArtistSkipsStore(t *testing.T) {
	store := &fakeDriftStore{monthly: []models.ArtistMonth{{Month: "2024-01", PlayCount: 5}}}
	d := NewDrift(store)

	curve, err := d.ObsessionCurve(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("ObsessionCurve failed: %v", err)
	}
	if curve.Months == nil || len(curve.Months) != 0 {
		t.Errorf("months = %v, want empty slice", curve.Months)
	}
	if store.monthlyCalls != 0 {
		t.Errorf("store was called %d times, want 0", store.monthlyCalls)
	}
}

func TestObsessionCurve(t *testing.T) {
	store := &fakeDriftStore{monthly: []models.ArtistMonth{
		{Month: "2024-01", PlayCount: 5, MsPlayed: 200000, TrackCount: 3},
		{Month: "2024-03", PlayCount: 12, MsPlayed: 480000, TrackCount: 7},
	}}
	d := NewDrift(store)

	curve, err := d.ObsessionCurve(context.Background(), "u1", "Some Artist")
	if err != nil {
		t.Fatalf("ObsessionCurve failed: %v", err)
	}
	if curve.Artist != "Some Artist" {
		t.Errorf("artist = %q", curve.Artist)
	}
	if len(curve.Months) != 2 || curve.Months[1].PlayCount != 12 {
		t.Errorf("months = %+v", curve.Months)
	}
}

func TestAlbumMosaicCapsPerMonth(t *testing.T) {
	rows := []models.AlbumMonthRow{}
	for i := 0; i < 8; i++ {
		rows = append(rows, models.AlbumMonthRow{
			Month: "2024-01", AlbumName: string(rune('A' + i)), ArtistName: "X", PlayCount: int64(100 - i),
		})
	}
	rows = append(rows, models.AlbumMonthRow{Month: "2024-02", AlbumName: "Solo", ArtistName: "Y", PlayCount: 4})

	d := NewDrift(&fakeDriftStore{albums: rows})

	mosaic, err := d.AlbumMosaic(context.Background(), "u1")
	if err != nil {
		t.Fatalf("AlbumMosaic failed: %v", err)
	}

	if len(mosaic) != 2 {
		t.Fatalf("got %d months, want 2", len(mosaic))
	}
	if len(mosaic[0].Albums) != 6 {
		t.Errorf("month 2024-01 holds %d albums, want 6", len(mosaic[0].Albums))
	}
	if mosaic[0].Albums[0].AlbumName != "A" {
		t.Errorf("top album = %q, want A (store order preserved)", mosaic[0].Albums[0].AlbumName)
	}
	if mosaic[1].Month != "2024-02" || len(mosaic[1].Albums) != 1 {
		t.Errorf("month 2 = %+v", mosaic[1])
	}
}
