// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package models

// SilencePeriod is a maximal run of 3 or more consecutive inactive days,
// annotated with the plays that bracket it. Bookends are nil when the
// silence touches the edge of the user's history.
type SilencePeriod struct {
	StartDate       string    `json:"startDate"` // first inactive day
	EndDate         string    `json:"endDate"`   // last inactive day
	Days            int       `json:"days"`      // inclusive inactive-day count
	LastTrackBefore *TrackRef `json:"lastTrackBefore"`
	FirstTrackAfter *TrackRef `json:"firstTrackAfter"`
}

// SilenceReport lists all silence periods detected in one calendar year.
type SilenceReport struct {
	Silences        []SilencePeriod `json:"silences"`
	TotalSilentDays int             `json:"totalSilentDays"`
}
