// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package importer

// RawEntry is one untrusted entry from a streaming-history export. Field
// presence is optional except Ts and MsPlayed. Entries are transient and
// never persisted as-is.
type RawEntry struct {
	Ts         string `json:"ts"`
	MsPlayed   *int64 `json:"ms_played"`
	TrackName  string `json:"master_metadata_track_name"`
	ArtistName string `json:"master_metadata_album_artist_name"`
	AlbumName  string `json:"master_metadata_album_album_name"`
	TrackURI   string `json:"spotify_track_uri"`
}

// SkipReasons counts entries dropped during classification. An entry failing
// multiple checks is counted once, under the first failing check.
type SkipReasons struct {
	TooShort     int `json:"tooShort"`
	NoTrackName  int `json:"noTrackName"`
	NoSpotifyURI int `json:"noSpotifyUri"`
	NoArtistName int `json:"noArtistName"`
}

// total sums all skip buckets.
func (s SkipReasons) total() int {
	return s.TooShort + s.NoTrackName + s.NoSpotifyURI + s.NoArtistName
}

// ImportResult summarizes one import call. For every valid import,
// Imported + Duplicates + Skipped == Total.
type ImportResult struct {
	Total       int         `json:"total"`
	Imported    int         `json:"imported"`
	Skipped     int         `json:"skipped"`
	Duplicates  int         `json:"duplicates"`
	SkipReasons SkipReasons `json:"skipReasons"`
}

// DeleteResult reports the outcome of a bulk history erase.
type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}

// ValidationError indicates the raw payload does not conform to the export
// schema. No partial processing occurs when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid export payload: " + e.Reason
}
