// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/avandyck/retrospin/internal/metrics"
	"github.com/avandyck/retrospin/internal/models"
)

// calendarFilter builds the shared WHERE fragment for calendar queries.
// Artist and album filters are exact case-insensitive matches.
func calendarFilter(userID string, year int, artist, album string) (string, []interface{}) {
	where := "user_id = ?"
	args := []interface{}{userID}

	if year != 0 {
		where += " AND played_at >= ? AND played_at < ?"
		args = append(args,
			time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	if artist != "" {
		where += " AND lower(artist_name) = lower(?)"
		args = append(args, artist)
	}
	if album != "" {
		where += " AND lower(album_name) = lower(?)"
		args = append(args, album)
	}
	return where, args
}

// DailyActivity returns per-day play counts for one calendar year, grouped
// by the UTC calendar date of played_at. Only dates with at least one play
// are returned, ordered by date ascending.
func (db *DB) DailyActivity(ctx context.Context, userID string, year int, artist string) ([]models.HeatmapDay, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("daily_activity", "plays")
	defer timer.ObserveDuration()

	where, args := calendarFilter(userID, year, artist, "")

	// DuckDB-native: strftime(timestamp, format). Argument order differs
	// from SQLite.
	query := fmt.Sprintf(`
	SELECT
		strftime(played_at, '%%Y-%%m-%%d') AS day,
		COUNT(*) AS play_count,
		SUM(ms_played) AS ms_played
	FROM plays
	WHERE %s
	GROUP BY day
	ORDER BY day ASC`, where)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily activity: %w", err)
	}
	defer rows.Close()

	var days []models.HeatmapDay
	for rows.Next() {
		var d models.HeatmapDay
		if err := rows.Scan(&d.Date, &d.Count, &d.MsPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily activity: %w", err)
	}
	return days, nil
}

// bucketCounts groups plays by a DuckDB EXTRACT part expression.
func (db *DB) bucketCounts(ctx context.Context, part, op string, userID string, year int, artist, album string) ([]models.BucketCount, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer(op, "plays")
	defer timer.ObserveDuration()

	where, args := calendarFilter(userID, year, artist, album)

	query := fmt.Sprintf(`
	SELECT
		CAST(EXTRACT(%s FROM played_at) AS INTEGER) AS bucket,
		COUNT(*) AS play_count,
		SUM(ms_played) AS ms_played
	FROM plays
	WHERE %s
	GROUP BY bucket
	ORDER BY bucket ASC`, part, where)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s buckets: %w", part, err)
	}
	defer rows.Close()

	var buckets []models.BucketCount
	for rows.Next() {
		var b models.BucketCount
		if err := rows.Scan(&b.Bucket, &b.Count, &b.MsPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan %s bucket: %w", part, err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s buckets: %w", part, err)
	}
	return buckets, nil
}

// HourlyCounts groups plays by UTC hour of day (0-23).
func (db *DB) HourlyCounts(ctx context.Context, userID string, year int, artist, album string) ([]models.BucketCount, error) {
	return db.bucketCounts(ctx, "hour", "hourly_counts", userID, year, artist, album)
}

// WeekdayCounts groups plays by UTC day of week. DuckDB EXTRACT(dow)
// returns 0 (Sunday) through 6 (Saturday).
func (db *DB) WeekdayCounts(ctx context.Context, userID string, year int, artist, album string) ([]models.BucketCount, error) {
	return db.bucketCounts(ctx, "dow", "weekday_counts", userID, year, artist, album)
}

// MonthlyCounts groups plays by calendar month (1-12).
func (db *DB) MonthlyCounts(ctx context.Context, userID string, year int, artist, album string) ([]models.BucketCount, error) {
	return db.bucketCounts(ctx, "month", "monthly_counts", userID, year, artist, album)
}

// ActiveDates returns the distinct UTC calendar dates with at least one play
// in the half-open range [from, to), ordered ascending, as YYYY-MM-DD.
func (db *DB) ActiveDates(ctx context.Context, userID string, from, to time.Time) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("active_dates", "plays")
	defer timer.ObserveDuration()

	rows, err := db.conn.QueryContext(ctx, `
	SELECT DISTINCT strftime(played_at, '%Y-%m-%d') AS day
	FROM plays
	WHERE user_id = ? AND played_at >= ? AND played_at < ?
	ORDER BY day ASC`, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query active dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan active date: %w", err)
		}
		dates = append(dates, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active dates: %w", err)
	}
	return dates, nil
}
