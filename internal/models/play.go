// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package models defines the data structures shared between the event store,
// the analytics components, and the API layer.
package models

import "time"

// SourceImport tags play events created by the history importer.
const SourceImport = "import"

// MinPlayMs is the minimum listened duration for a play event to exist in
// the store. Shorter plays are dropped before persistence, never filtered at
// query time.
const MinPlayMs = 30000

// PlayEvent is one completed listening event. Events are created only by the
// importer, never mutated, and deleted only via the bulk erase operation.
// The application-level dedup key is (UserID, TrackID, PlayedAt).
type PlayEvent struct {
	UserID     string    `json:"userId"`
	TrackID    string    `json:"trackId"`
	ArtistName string    `json:"artistName"`
	TrackName  string    `json:"trackName"`
	AlbumName  *string   `json:"albumName"`
	MsPlayed   int64     `json:"msPlayed"`
	PlayedAt   time.Time `json:"playedAt"`
	Source     string    `json:"source"`
}

// TrackRef identifies a track by name and artist, used for the plays that
// bracket a silence period.
type TrackRef struct {
	TrackName  string `json:"trackName"`
	ArtistName string `json:"artistName"`
}

// DateRange is an inclusive ISO-date range.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ImportStatus summarizes a user's stored history.
type ImportStatus struct {
	HasData     bool       `json:"hasData"`
	TotalTracks int64      `json:"totalTracks"`
	DateRange   *DateRange `json:"dateRange"`
}
