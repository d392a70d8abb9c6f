// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package models

// ArtistPlays is one artist's aggregate within a period. When counts tie,
// ordering follows storage-returned order and is not stable.
type ArtistPlays struct {
	ArtistName string `json:"artistName"`
	PlayCount  int64  `json:"playCount"`
	MsPlayed   int64  `json:"msPlayed"`
}

// MonthStats aggregates a whole calendar month, not just the top artists.
type MonthStats struct {
	TotalPlays    int64 `json:"totalPlays"`
	TotalMs       int64 `json:"totalMs"`
	UniqueArtists int64 `json:"uniqueArtists"`
	UniqueTracks  int64 `json:"uniqueTracks"`
}

// MonthSnapshot is one month's top artists plus whole-month stats.
type MonthSnapshot struct {
	Artists []ArtistPlays `json:"artists"`
	Stats   MonthStats    `json:"stats"`
}

// DriftReport compares the current and previous calendar months' listening.
type DriftReport struct {
	CurrentMonth string        `json:"currentMonth"` // YYYY-MM
	PrevMonth    string        `json:"prevMonth"`    // YYYY-MM
	Current      MonthSnapshot `json:"current"`
	Previous     MonthSnapshot `json:"previous"`
	Rising       []ArtistPlays `json:"rising"`
	Fading       []ArtistPlays `json:"fading"`
	Genres       []string      `json:"genres,omitempty"` // catalog enrichment, best effort
}

// ArtistMonth is one calendar month of a single artist's history.
type ArtistMonth struct {
	Month      string `json:"month"` // YYYY-MM
	PlayCount  int64  `json:"playCount"`
	MsPlayed   int64  `json:"msPlayed"`
	TrackCount int64  `json:"trackCount"` // distinct tracks
}

// ObsessionCurve is an artist's month-by-month play curve over all history.
type ObsessionCurve struct {
	Artist string        `json:"artist"`
	Months []ArtistMonth `json:"months"`
}

// AlbumPlays is one album's aggregate within a month.
type AlbumPlays struct {
	AlbumName  string `json:"albumName"`
	ArtistName string `json:"artistName"`
	PlayCount  int64  `json:"playCount"`
}

// AlbumMonth is one month of the album mosaic, at most six albums ranked by
// play count descending.
type AlbumMonth struct {
	Month  string       `json:"month"` // YYYY-MM
	Albums []AlbumPlays `json:"albums"`
}

// AlbumMonthRow is a raw grouped row from the event store, ordered by month
// ascending then play count descending.
type AlbumMonthRow struct {
	Month      string
	AlbumName  string
	ArtistName string
	PlayCount  int64
}
