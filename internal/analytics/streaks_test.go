// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avandyck/retrospin/internal/models"
)

// fakePatternStore serves canned active dates and bookend tracks.
type fakePatternStore struct {
	activeDates []string
	before      *models.TrackRef
	after       *models.TrackRef
	err         error
}

func (f *fakePatternStore) ActiveDates(ctx context.Context, userID string, from, to time.Time) ([]string, error) {
	return f.activeDates, f.err
}

func (f *fakePatternStore) LastPlayBefore(ctx context.Context, userID string, t time.Time) (*models.TrackRef, error) {
	return f.before, nil
}

func (f *fakePatternStore) FirstPlayAt(ctx context.Context, userID string, t time.Time) (*models.TrackRef, error) {
	return f.after, nil
}

func patternsAt(store PatternStore, now time.Time) *Patterns {
	p := NewPatterns(store)
	p.now = func() time.Time { return now }
	return p
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"single day", []string{"2024-06-15"}, 1},
		{"three consecutive", []string{"2024-06-15", "2024-06-16", "2024-06-17"}, 3},
		{"gap breaks run", []string{"2024-06-15", "2024-06-17"}, 1},
		{"longest in middle", []string{"2024-01-01", "2024-03-01", "2024-03-02", "2024-03-03", "2024-06-01"}, 3},
		{"month boundary", []string{"2024-01-31", "2024-02-01"}, 2},
		{"unparseable date breaks run", []string{"2024-06-15", "bogus", "2024-06-17"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.dates); got != tt.want {
				t.Errorf("LongestStreak(%v) = %d, want %d", tt.dates, got, tt.want)
			}
		})
	}
}

func TestSilencesTwoPlayDates(t *testing.T) {
	store := &fakePatternStore{
		activeDates: []string{"2024-01-01", "2024-01-10"},
		before:      &models.TrackRef{TrackName: "Last", ArtistName: "Before"},
		after:       &models.TrackRef{TrackName: "First", ArtistName: "After"},
	}
	// Jan 12: the trailing inactive run (Jan 11-12) stays under 3 days.
	p := patternsAt(store, time.Date(2024, 1, 12, 15, 0, 0, 0, time.UTC))

	report, err := p.Silences(context.Background(), "u1", 2024)
	if err != nil {
		t.Fatalf("Silences failed: %v", err)
	}

	if len(report.Silences) != 1 {
		t.Fatalf("got %d silences, want 1: %+v", len(report.Silences), report.Silences)
	}
	s := report.Silences[0]
	if s.StartDate != "2024-01-02" || s.EndDate != "2024-01-09" || s.Days != 8 {
		t.Errorf("silence = %+v, want 2024-01-02..2024-01-09 / 8 days", s)
	}
	if s.LastTrackBefore == nil || s.LastTrackBefore.TrackName != "Last" {
		t.Errorf("lastTrackBefore = %+v", s.LastTrackBefore)
	}
	if s.FirstTrackAfter == nil || s.FirstTrackAfter.ArtistName != "After" {
		t.Errorf("firstTrackAfter = %+v", s.FirstTrackAfter)
	}
	if report.TotalSilentDays != 8 {
		t.Errorf("totalSilentDays = %d, want 8", report.TotalSilentDays)
	}
}

func TestSilencesPastYearScansWholeYear(t *testing.T) {
	store := &fakePatternStore{activeDates: []string{"2024-01-01", "2024-01-10"}}
	p := patternsAt(store, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	report, err := p.Silences(context.Background(), "u1", 2024)
	if err != nil {
		t.Fatalf("Silences failed: %v", err)
	}

	// Jan 2-9 plus the trailing Jan 11 - Dec 31 run of the leap year.
	if len(report.Silences) != 2 {
		t.Fatalf("got %d silences, want 2", len(report.Silences))
	}
	trailing := report.Silences[1]
	if trailing.StartDate != "2024-01-11" || trailing.EndDate != "2024-12-31" || trailing.Days != 356 {
		t.Errorf("trailing silence = %+v", trailing)
	}
	if report.TotalSilentDays != 364 {
		t.Errorf("totalSilentDays = %d, want 364", report.TotalSilentDays)
	}
}

func TestSilencesShortGapsIgnored(t *testing.T) {
	store := &fakePatternStore{activeDates: []string{"2024-01-01", "2024-01-03", "2024-01-05"}}
	p := patternsAt(store, time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC))

	report, err := p.Silences(context.Background(), "u1", 2024)
	if err != nil {
		t.Fatalf("Silences failed: %v", err)
	}
	if len(report.Silences) != 0 || report.TotalSilentDays != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestSilencesEveryDayActive(t *testing.T) {
	dates := []string{}
	for day := 1; day <= 10; day++ {
		dates = append(dates, time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	}
	store := &fakePatternStore{activeDates: dates}
	p := patternsAt(store, time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC))

	report, err := p.Silences(context.Background(), "u1", 2024)
	if err != nil {
		t.Fatalf("Silences failed: %v", err)
	}
	if len(report.Silences) != 0 || report.TotalSilentDays != 0 {
		t.Errorf("report = %+v, want no silences", report)
	}
	if report.Silences == nil {
		t.Error("silences must be an empty slice, not nil")
	}
}

func TestSilencesInvalidYear(t *testing.T) {
	p := patternsAt(&fakePatternStore{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	_, err := p.Silences(context.Background(), "u1", 1999)
	var invalid *InvalidYearError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidYearError, got %v", err)
	}
}

func TestSilencesFutureYearEmpty(t *testing.T) {
	p := patternsAt(&fakePatternStore{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	report, err := p.Silences(context.Background(), "u1", 2025)
	if err != nil {
		t.Fatalf("Silences failed: %v", err)
	}
	if len(report.Silences) != 0 {
		t.Errorf("future year produced silences: %+v", report.Silences)
	}
}
