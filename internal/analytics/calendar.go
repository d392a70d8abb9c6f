// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/avandyck/retrospin/internal/models"
)

// CalendarStore is the event-store surface the calendar aggregator needs.
type CalendarStore interface {
	DailyActivity(ctx context.Context, userID string, year int, artist string) ([]models.HeatmapDay, error)
	HourlyCounts(ctx context.Context, userID string, year int, artist, album string) ([]models.BucketCount, error)
	WeekdayCounts(ctx context.Context, userID string, year int, artist, album string) ([]models.BucketCount, error)
	MonthlyCounts(ctx context.Context, userID string, year int, artist, album string) ([]models.BucketCount, error)
}

// Calendar buckets play events into fixed-size zero-filled arrays and
// per-day heatmaps.
type Calendar struct {
	store CalendarStore
	now   func() time.Time
}

// NewCalendar creates a calendar aggregator.
func NewCalendar(store CalendarStore) *Calendar {
	return &Calendar{store: store, now: time.Now}
}

// DailyHeatmap returns per-day play counts for one calendar year. The
// result is sparse: only dates with at least one play appear. Zero-filling
// the calendar grid is the caller's concern.
func (c *Calendar) DailyHeatmap(ctx context.Context, userID string, year int, artist string) ([]models.HeatmapDay, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}
	days, err := c.store.DailyActivity(ctx, userID, year, artist)
	if err != nil {
		return nil, fmt.Errorf("daily heatmap: %w", err)
	}
	if days == nil {
		days = []models.HeatmapDay{}
	}
	return days, nil
}

// Hourly returns 24 hour-of-day buckets. Buckets without plays are explicit
// zero entries; the array length never varies with data sparsity.
// year == 0 means all history.
func (c *Calendar) Hourly(ctx context.Context, userID string, year int, artist, album string) ([]models.HourBucket, error) {
	if year != 0 {
		if err := ValidateYear(year); err != nil {
			return nil, err
		}
	}
	counts, err := c.store.HourlyCounts(ctx, userID, year, artist, album)
	if err != nil {
		return nil, fmt.Errorf("hourly distribution: %w", err)
	}

	buckets := make([]models.HourBucket, 24)
	for h := range buckets {
		buckets[h] = models.HourBucket{Hour: h, Label: TimeOfDayLabel(h)}
	}
	for _, row := range counts {
		if row.Bucket < 0 || row.Bucket > 23 {
			continue
		}
		buckets[row.Bucket].Count = row.Count
		buckets[row.Bucket].MsPlayed = row.MsPlayed
	}
	return buckets, nil
}

// Weekly returns 7 day-of-week buckets indexed 0 (Sunday) - 6 (Saturday),
// zero-filled, each carrying its localized day name.
func (c *Calendar) Weekly(ctx context.Context, userID string, year int, artist, album string) ([]models.WeekdayBucket, error) {
	if year != 0 {
		if err := ValidateYear(year); err != nil {
			return nil, err
		}
	}
	counts, err := c.store.WeekdayCounts(ctx, userID, year, artist, album)
	if err != nil {
		return nil, fmt.Errorf("weekly distribution: %w", err)
	}

	buckets := make([]models.WeekdayBucket, 7)
	for d := range buckets {
		buckets[d] = models.WeekdayBucket{Day: d, Name: DayName(d)}
	}
	for _, row := range counts {
		if row.Bucket < 0 || row.Bucket > 6 {
			continue
		}
		buckets[row.Bucket].Count = row.Count
		buckets[row.Bucket].MsPlayed = row.MsPlayed
	}
	return buckets, nil
}

// Monthly returns 12 month buckets; array index i holds month i+1,
// zero-filled, each carrying its localized month name and season.
func (c *Calendar) Monthly(ctx context.Context, userID string, year int, artist, album string) ([]models.MonthBucket, error) {
	if year != 0 {
		if err := ValidateYear(year); err != nil {
			return nil, err
		}
	}
	counts, err := c.store.MonthlyCounts(ctx, userID, year, artist, album)
	if err != nil {
		return nil, fmt.Errorf("monthly distribution: %w", err)
	}

	buckets := make([]models.MonthBucket, 12)
	for i := range buckets {
		buckets[i] = models.MonthBucket{
			Month:  i + 1,
			Name:   MonthName(i + 1),
			Season: SeasonName(i + 1),
		}
	}
	for _, row := range counts {
		if row.Bucket < 1 || row.Bucket > 12 {
			continue
		}
		buckets[row.Bucket-1].Count = row.Count
		buckets[row.Bucket-1].MsPlayed = row.MsPlayed
	}
	return buckets, nil
}

// Summary aggregates one calendar year: total plays, active days, longest
// streak, most active day, and average daily plays. All fields are zero or
// null when the period has no data.
//
// TotalPlays is derived from the per-day aggregate rather than a raw row
// count so the streak computation shares the same query.
func (c *Calendar) Summary(ctx context.Context, userID string, year int, artist string) (*models.CalendarSummary, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}

	days, err := c.store.DailyActivity(ctx, userID, year, artist)
	if err != nil {
		return nil, fmt.Errorf("calendar summary: %w", err)
	}

	summary := &models.CalendarSummary{}
	if len(days) == 0 {
		return summary, nil
	}

	dates := make([]string, 0, len(days))
	var mostActive models.ActiveDay
	for _, d := range days {
		summary.TotalPlays += d.Count
		dates = append(dates, d.Date)
		if d.Count > mostActive.Count {
			mostActive = models.ActiveDay{Date: d.Date, Count: d.Count}
		}
	}

	summary.ActiveDays = len(days)
	summary.LongestStreak = LongestStreak(dates)
	summary.MostActiveDay = &mostActive
	summary.AverageDailyPlays = roundTo1(float64(summary.TotalPlays) / float64(c.periodDays(year)))

	return summary, nil
}

// periodDays is the average-daily-plays denominator: for the current year,
// the elapsed days from Jan 1 through today inclusive; otherwise the exact
// calendar-year length.
func (c *Calendar) periodDays(year int) int {
	now := c.now().UTC()
	if year != now.Year() {
		return daysInYear(year)
	}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(now.Sub(jan1).Hours()/24) + 1
}

// roundTo1 rounds to one decimal place.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
