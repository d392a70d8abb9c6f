// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avandyck/retrospin/internal/metrics"
	"github.com/avandyck/retrospin/internal/models"
)

// DedupKey builds the application-level dedup key for a (trackId, playedAt)
// pair. The timestamp is rendered as a UTC ISO string so that key equality
// matches the import contract, not driver-level timestamp precision.
func DedupKey(trackID string, playedAt time.Time) string {
	return trackID + "|" + playedAt.UTC().Format(time.RFC3339)
}

// InsertPlays inserts one batch of play events in the given order. Callers
// chunk their input; a batch that fits storage payload limits is the
// caller's responsibility.
func (db *DB) InsertPlays(ctx context.Context, plays []models.PlayEvent) error {
	if len(plays) == 0 {
		return nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("insert", "plays")
	defer timer.ObserveDuration()

	var sb strings.Builder
	sb.WriteString(`INSERT INTO plays
		(user_id, track_id, artist_name, track_name, album_name, ms_played, played_at, source)
	VALUES `)

	args := make([]interface{}, 0, len(plays)*8)
	for i, p := range plays {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, p.UserID, p.TrackID, p.ArtistName, p.TrackName,
			p.AlbumName, p.MsPlayed, p.PlayedAt.UTC(), p.Source)
	}

	if _, err := db.conn.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert plays: %w", err)
	}
	return nil
}

// PlayKeys loads every stored (trackId, playedAt) dedup key for a user.
func (db *DB) PlayKeys(ctx context.Context, userID string) (map[string]struct{}, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("play_keys", "plays")
	defer timer.ObserveDuration()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT track_id, played_at FROM plays WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query play keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var trackID string
		var playedAt time.Time
		if err := rows.Scan(&trackID, &playedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play key: %w", err)
		}
		keys[DedupKey(trackID, playedAt)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating play keys: %w", err)
	}
	return keys, nil
}

// DeleteAllPlays removes every play event for a user and returns the number
// of deleted rows. Deleting a user with no data is not an error.
func (db *DB) DeleteAllPlays(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("delete", "plays")
	defer timer.ObserveDuration()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM plays WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete plays: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted row count: %w", err)
	}
	return deleted, nil
}

// PlayStats returns the total event count and the min/max played_at for a
// user. Both timestamps are nil when the user has no data.
func (db *DB) PlayStats(ctx context.Context, userID string) (int64, *time.Time, *time.Time, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	timer := metrics.NewDBTimer("stats", "plays")
	defer timer.ObserveDuration()

	var count int64
	var minAt, maxAt *time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(played_at), MAX(played_at) FROM plays WHERE user_id = ?`,
		userID).Scan(&count, &minAt, &maxAt)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to query play stats: %w", err)
	}
	return count, minAt, maxAt, nil
}

// LastPlayBefore returns the single most recent play strictly before t, or
// nil when none exists.
func (db *DB) LastPlayBefore(ctx context.Context, userID string, t time.Time) (*models.TrackRef, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var ref models.TrackRef
	err := db.conn.QueryRowContext(ctx,
		`SELECT track_name, artist_name FROM plays
		 WHERE user_id = ? AND played_at < ?
		 ORDER BY played_at DESC LIMIT 1`,
		userID, t.UTC()).Scan(&ref.TrackName, &ref.ArtistName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last play before %s: %w", t.Format(time.RFC3339), err)
	}
	return &ref, nil
}

// FirstPlayAt returns the single earliest play at or after t, or nil when
// none exists.
func (db *DB) FirstPlayAt(ctx context.Context, userID string, t time.Time) (*models.TrackRef, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var ref models.TrackRef
	err := db.conn.QueryRowContext(ctx,
		`SELECT track_name, artist_name FROM plays
		 WHERE user_id = ? AND played_at >= ?
		 ORDER BY played_at ASC LIMIT 1`,
		userID, t.UTC()).Scan(&ref.TrackName, &ref.ArtistName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query first play at %s: %w", t.Format(time.RFC3339), err)
	}
	return &ref, nil
}
