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

// TracksOnDay aggregates a user's plays on one exact UTC calendar day,
// grouped per track, ordered by total listened time descending.
func (db *DB) TracksOnDay(ctx context.Context, userID string, day time.Time) ([]models.CapsuleTrack, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("tracks_on_day", "plays")
	defer timer.ObserveDuration()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := db.conn.QueryContext(ctx, `
	SELECT
		track_id,
		track_name,
		artist_name,
		album_name,
		SUM(ms_played) AS total_ms,
		MIN(played_at) AS first_played_at,
		COUNT(*) AS play_count
	FROM plays
	WHERE user_id = ? AND played_at >= ? AND played_at < ?
	GROUP BY track_id, track_name, artist_name, album_name
	ORDER BY total_ms DESC`, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks on %s: %w", dayStart.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var tracks []models.CapsuleTrack
	for rows.Next() {
		var t models.CapsuleTrack
		if err := rows.Scan(&t.TrackID, &t.TrackName, &t.ArtistName, &t.AlbumName,
			&t.TotalMsPlayed, &t.FirstPlayedAt, &t.PlayCount); err != nil {
			return nil, fmt.Errorf("failed to scan capsule track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating capsule tracks: %w", err)
	}
	return tracks, nil
}

// DormantArtists returns artists with at least minMs cumulative listened
// time whose most recent play is strictly before cutoff, ranked by total
// listened time descending.
func (db *DB) DormantArtists(ctx context.Context, userID string, minMs int64, cutoff time.Time, limit int) ([]models.DormantArtist, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("dormant_artists", "plays")
	defer timer.ObserveDuration()

	rows, err := db.conn.QueryContext(ctx, `
	SELECT
		artist_name,
		SUM(ms_played) AS total_ms,
		COUNT(*) AS play_count,
		MAX(played_at) AS last_played
	FROM plays
	WHERE user_id = ?
	GROUP BY artist_name
	HAVING SUM(ms_played) >= ? AND MAX(played_at) < ?
	ORDER BY total_ms DESC
	LIMIT ?`, userID, minMs, cutoff.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dormant artists: %w", err)
	}
	defer rows.Close()

	var artists []models.DormantArtist
	for rows.Next() {
		var a models.DormantArtist
		if err := rows.Scan(&a.ArtistName, &a.TotalMsPlayed, &a.PlayCount, &a.LastPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan dormant artist: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dormant artists: %w", err)
	}
	return artists, nil
}
