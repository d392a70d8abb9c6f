// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package models

// HeatmapDay is one calendar day with at least one play. Heatmap results are
// sparse; days without plays are not returned.
type HeatmapDay struct {
	Date     string `json:"date"` // YYYY-MM-DD (UTC)
	Count    int64  `json:"count"`
	MsPlayed int64  `json:"msPlayed"`
}

// HourBucket is one hour-of-day bucket (0-23, UTC).
type HourBucket struct {
	Hour     int    `json:"hour"`
	Label    string `json:"label"` // time-of-day label (e.g. "morning")
	Count    int64  `json:"count"`
	MsPlayed int64  `json:"msPlayed"`
}

// WeekdayBucket is one day-of-week bucket (0 = Sunday .. 6 = Saturday, UTC).
type WeekdayBucket struct {
	Day      int    `json:"day"`
	Name     string `json:"name"`
	Count    int64  `json:"count"`
	MsPlayed int64  `json:"msPlayed"`
}

// MonthBucket is one month-of-year bucket (1-12).
type MonthBucket struct {
	Month    int    `json:"month"`
	Name     string `json:"name"`
	Season   string `json:"season"`
	Count    int64  `json:"count"`
	MsPlayed int64  `json:"msPlayed"`
}

// ActiveDay is the most active day within a summary period.
type ActiveDay struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// CalendarSummary aggregates a user's activity for one calendar year.
type CalendarSummary struct {
	TotalPlays        int64      `json:"totalPlays"`
	ActiveDays        int        `json:"activeDays"`
	LongestStreak     int        `json:"longestStreak"`
	MostActiveDay     *ActiveDay `json:"mostActiveDay"`
	AverageDailyPlays float64    `json:"averageDailyPlays"`
}

// BucketCount is a raw grouped row from the event store: a numeric time
// bucket (hour, day-of-week, or month) with its aggregate counts.
type BucketCount struct {
	Bucket   int
	Count    int64
	MsPlayed int64
}
