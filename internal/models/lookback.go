// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package models

import "time"

// CapsuleTrack is one track's aggregate for a single anniversary date.
type CapsuleTrack struct {
	TrackID       string    `json:"trackId"`
	TrackName     string    `json:"trackName"`
	ArtistName    string    `json:"artistName"`
	AlbumName     *string   `json:"albumName"`
	TotalMsPlayed int64     `json:"totalMsPlayed"`
	FirstPlayedAt time.Time `json:"firstPlayedAt"`
	PlayCount     int64     `json:"playCount"`
	AlbumArt      string    `json:"albumArt,omitempty"` // catalog enrichment, best effort
}

// CapsuleEntry is all plays from exactly N years ago today. Years with no
// matching plays are omitted from the result entirely.
type CapsuleEntry struct {
	YearsAgo int            `json:"yearsAgo"`
	Tracks   []CapsuleTrack `json:"tracks"`
}

// DormantArtist is an artist with heavy past listening and no recent plays.
type DormantArtist struct {
	ArtistName    string    `json:"artistName"`
	TotalMsPlayed int64     `json:"totalMsPlayed"`
	PlayCount     int64     `json:"playCount"`
	LastPlayed    time.Time `json:"lastPlayed"`
}
