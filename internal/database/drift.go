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

// TopArtists returns a user's artists ranked by play count descending within
// the half-open range [from, to). Ties keep storage-returned order, which is
// not stable.
func (db *DB) TopArtists(ctx context.Context, userID string, from, to time.Time, limit int) ([]models.ArtistPlays, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("top_artists", "plays")
	defer timer.ObserveDuration()

	rows, err := db.conn.QueryContext(ctx, `
	SELECT artist_name, COUNT(*) AS play_count, SUM(ms_played) AS ms_played
	FROM plays
	WHERE user_id = ? AND played_at >= ? AND played_at < ?
	GROUP BY artist_name
	ORDER BY play_count DESC
	LIMIT ?`, userID, from.UTC(), to.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top artists: %w", err)
	}
	defer rows.Close()

	var artists []models.ArtistPlays
	for rows.Next() {
		var a models.ArtistPlays
		if err := rows.Scan(&a.ArtistName, &a.PlayCount, &a.MsPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan top artist: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top artists: %w", err)
	}
	return artists, nil
}

// MonthStats aggregates the whole range [from, to), not just the top
// artists.
func (db *DB) MonthStats(ctx context.Context, userID string, from, to time.Time) (models.MonthStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("month_stats", "plays")
	defer timer.ObserveDuration()

	var stats models.MonthStats
	err := db.conn.QueryRowContext(ctx, `
	SELECT
		COUNT(*),
		COALESCE(SUM(ms_played), 0),
		COUNT(DISTINCT artist_name),
		COUNT(DISTINCT track_id)
	FROM plays
	WHERE user_id = ? AND played_at >= ? AND played_at < ?`,
		userID, from.UTC(), to.UTC()).
		Scan(&stats.TotalPlays, &stats.TotalMs, &stats.UniqueArtists, &stats.UniqueTracks)
	if err != nil {
		return models.MonthStats{}, fmt.Errorf("failed to query month stats: %w", err)
	}
	return stats, nil
}

// ArtistMonthly returns one row per calendar month of a single artist's
// entire history, ordered chronologically. The artist match is exact and
// case-insensitive.
func (db *DB) ArtistMonthly(ctx context.Context, userID, artist string) ([]models.ArtistMonth, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("artist_monthly", "plays")
	defer timer.ObserveDuration()

	rows, err := db.conn.QueryContext(ctx, `
	SELECT
		strftime(played_at, '%Y-%m') AS month,
		COUNT(*) AS play_count,
		SUM(ms_played) AS ms_played,
		COUNT(DISTINCT track_id) AS track_count
	FROM plays
	WHERE user_id = ? AND lower(artist_name) = lower(?)
	GROUP BY month
	ORDER BY month ASC`, userID, artist)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist months: %w", err)
	}
	defer rows.Close()

	var months []models.ArtistMonth
	for rows.Next() {
		var m models.ArtistMonth
		if err := rows.Scan(&m.Month, &m.PlayCount, &m.MsPlayed, &m.TrackCount); err != nil {
			return nil, fmt.Errorf("failed to scan artist month: %w", err)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artist months: %w", err)
	}
	return months, nil
}

// AlbumsByMonth returns whole-history album plays grouped by calendar month,
// ordered by month ascending then play count descending. Rows without an
// album name are excluded.
func (db *DB) AlbumsByMonth(ctx context.Context, userID string) ([]models.AlbumMonthRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("albums_by_month", "plays")
	defer timer.ObserveDuration()

	rows, err := db.conn.QueryContext(ctx, `
	SELECT
		strftime(played_at, '%Y-%m') AS month,
		album_name,
		artist_name,
		COUNT(*) AS play_count
	FROM plays
	WHERE user_id = ? AND album_name IS NOT NULL
	GROUP BY month, album_name, artist_name
	ORDER BY month ASC, play_count DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums by month: %w", err)
	}
	defer rows.Close()

	var result []models.AlbumMonthRow
	for rows.Next() {
		var r models.AlbumMonthRow
		if err := rows.Scan(&r.Month, &r.AlbumName, &r.ArtistName, &r.PlayCount); err != nil {
			return nil, fmt.Errorf("failed to scan album month row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating album month rows: %w", err)
	}
	return result, nil
}
