// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package importer validates, filters, deduplicates, and batch-inserts raw
// streaming-history export entries into the event store.
package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avandyck/retrospin/internal/logging"
	"github.com/avandyck/retrospin/internal/metrics"
	"github.com/avandyck/retrospin/internal/models"
)

// DefaultBatchSize is the insert batch size. It exists only to respect
// storage payload limits; batch boundaries are not externally observable.
const DefaultBatchSize = 500

// trackURIPattern matches catalog track URIs of the form
// "<scheme>:track:<id>" with an alphanumeric id. Non-track URIs (podcast
// episodes and the like) do not match.
var trackURIPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:track:[A-Za-z0-9]+$`)

// Store is the event-store surface the importer needs.
type Store interface {
	PlayKeys(ctx context.Context, userID string) (map[string]struct{}, error)
	InsertPlays(ctx context.Context, plays []models.PlayEvent) error
	DeleteAllPlays(ctx context.Context, userID string) (int64, error)
	PlayStats(ctx context.Context, userID string) (int64, *time.Time, *time.Time, error)
}

// Importer turns raw export entries into persisted play events.
type Importer struct {
	store     Store
	batchSize int
	log       zerolog.Logger
}

// New creates an importer. batchSize <= 0 falls back to DefaultBatchSize.
func New(store Store, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		store:     store,
		batchSize: batchSize,
		log:       logging.With().Str("component", "importer").Logger(),
	}
}

// ImportHistory validates, classifies, deduplicates, and persists raw
// entries for a user. Returns a *ValidationError when the payload does not
// conform to the export schema; in that case nothing is persisted.
//
// Inserts are issued in fixed-size batches with no rollback: if a later
// batch fails, earlier batches remain committed. Re-running the same import
// is safe because duplicates are detected by the (trackId, playedAt) key.
func (i *Importer) ImportHistory(ctx context.Context, userID string, raw []RawEntry) (*ImportResult, error) {
	parsed, err := parseEntries(raw)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Total: len(raw)}

	candidates := classify(parsed, result)

	existing, err := i.store.PlayKeys(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load existing play keys: %w", err)
	}

	newRows := make([]models.PlayEvent, 0, len(candidates))
	for _, c := range candidates {
		event := c.toPlayEvent(userID)
		key := event.TrackID + "|" + event.PlayedAt.UTC().Format(time.RFC3339)
		if _, dup := existing[key]; dup {
			result.Duplicates++
			continue
		}
		// Guards against the same key appearing twice within one payload.
		existing[key] = struct{}{}
		newRows = append(newRows, event)
	}

	for start := 0; start < len(newRows); start += i.batchSize {
		end := start + i.batchSize
		if end > len(newRows) {
			end = len(newRows)
		}
		if err := i.store.InsertPlays(ctx, newRows[start:end]); err != nil {
			return nil, fmt.Errorf("insert batch at offset %d: %w", start, err)
		}
	}

	result.Imported = len(newRows)
	result.Skipped = result.SkipReasons.total()
	recordOutcomes(result)

	i.log.Info().
		Str("user_id", userID).
		Int("total", result.Total).
		Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).
		Int("skipped", result.Skipped).
		Msg("Import completed")

	return result, nil
}

// DeleteAllHistory erases every play event for a user. Idempotent; deleting
// with no data returns zero.
func (i *Importer) DeleteAllHistory(ctx context.Context, userID string) (*DeleteResult, error) {
	deleted, err := i.store.DeleteAllPlays(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("delete history: %w", err)
	}

	i.log.Info().Str("user_id", userID).Int64("deleted", deleted).Msg("History erased")

	return &DeleteResult{Deleted: deleted}, nil
}

// Status reports whether a user has stored history and its date range.
func (i *Importer) Status(ctx context.Context, userID string) (*models.ImportStatus, error) {
	count, minAt, maxAt, err := i.store.PlayStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query import status: %w", err)
	}

	status := &models.ImportStatus{
		HasData:     count > 0,
		TotalTracks: count,
	}
	if minAt != nil && maxAt != nil {
		status.DateRange = &models.DateRange{
			From: minAt.UTC().Format(time.RFC3339),
			To:   maxAt.UTC().Format(time.RFC3339),
		}
	}
	return status, nil
}

// recordOutcomes feeds the per-outcome import counters.
func recordOutcomes(result *ImportResult) {
	metrics.ImportEntriesTotal.WithLabelValues("imported").Add(float64(result.Imported))
	metrics.ImportEntriesTotal.WithLabelValues("duplicate").Add(float64(result.Duplicates))
	metrics.ImportEntriesTotal.WithLabelValues("too_short").Add(float64(result.SkipReasons.TooShort))
	metrics.ImportEntriesTotal.WithLabelValues("no_track_name").Add(float64(result.SkipReasons.NoTrackName))
	metrics.ImportEntriesTotal.WithLabelValues("no_spotify_uri").Add(float64(result.SkipReasons.NoSpotifyURI))
	metrics.ImportEntriesTotal.WithLabelValues("no_artist_name").Add(float64(result.SkipReasons.NoArtistName))
}

// parsedEntry is a raw entry whose required fields validated.
type parsedEntry struct {
	RawEntry
	msPlayed int64
	playedAt time.Time
}

// parseEntries validates the export schema: every entry needs an
// ISO-8601-parseable ts and a non-negative ms_played. Any violation fails
// the whole payload before processing starts.
func parseEntries(raw []RawEntry) ([]parsedEntry, error) {
	parsed := make([]parsedEntry, 0, len(raw))
	for idx, e := range raw {
		if e.Ts == "" {
			return nil, &ValidationError{Reason: fmt.Sprintf("entry %d: missing ts", idx)}
		}
		playedAt, err := time.Parse(time.RFC3339, e.Ts)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("entry %d: unparseable ts %q", idx, e.Ts)}
		}
		if e.MsPlayed == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("entry %d: missing ms_played", idx)}
		}
		if *e.MsPlayed < 0 {
			return nil, &ValidationError{Reason: fmt.Sprintf("entry %d: negative ms_played", idx)}
		}
		parsed = append(parsed, parsedEntry{RawEntry: e, msPlayed: *e.MsPlayed, playedAt: playedAt.UTC()})
	}
	return parsed, nil
}

// classify assigns each entry to exactly one bucket. Order matters for
// reproducible skip counts: short-play check first, then track name, then
// URI, then artist name.
func classify(entries []parsedEntry, result *ImportResult) []parsedEntry {
	valid := make([]parsedEntry, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.msPlayed < models.MinPlayMs:
			result.SkipReasons.TooShort++
		case e.TrackName == "":
			result.SkipReasons.NoTrackName++
		case !trackURIPattern.MatchString(e.TrackURI):
			result.SkipReasons.NoSpotifyURI++
		case e.ArtistName == "":
			result.SkipReasons.NoArtistName++
		default:
			valid = append(valid, e)
		}
	}
	return valid
}

// toPlayEvent builds the candidate play event for a valid entry.
func (e parsedEntry) toPlayEvent(userID string) models.PlayEvent {
	event := models.PlayEvent{
		UserID:     userID,
		TrackID:    trackIDFromURI(e.TrackURI),
		ArtistName: e.ArtistName,
		TrackName:  e.TrackName,
		MsPlayed:   e.msPlayed,
		PlayedAt:   e.playedAt,
		Source:     models.SourceImport,
	}
	if e.AlbumName != "" {
		album := e.AlbumName
		event.AlbumName = &album
	}
	return event
}

// trackIDFromURI extracts the opaque catalog id from a validated track URI.
func trackIDFromURI(uri string) string {
	return uri[strings.LastIndex(uri, ":")+1:]
}
