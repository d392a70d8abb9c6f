// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package models

// TrackMetadata is catalog-supplied track metadata.
type TrackMetadata struct {
	AlbumArt  string `json:"albumArt"`
	AlbumName string `json:"albumName"`
}

// ArtistInfo is catalog-supplied artist metadata.
type ArtistInfo struct {
	ID     string   `json:"id"`
	Genres []string `json:"genres"`
}
