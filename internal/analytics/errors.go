// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package analytics implements the temporal aggregation and
// pattern-detection components over the play-event log: calendar
// aggregation, streak and silence detection, drift and obsession analysis,
// and lookback queries. Components declare the narrow store surface they
// need; the database package satisfies those interfaces.
package analytics

import "fmt"

// Year bounds accepted by every year-scoped operation.
const (
	MinYear = 2000
	MaxYear = 2100
)

// InvalidYearError reports a year outside [MinYear, MaxYear] or a
// non-numeric year parameter. It is returned before any query is issued.
type InvalidYearError struct {
	Year int
}

func (e *InvalidYearError) Error() string {
	return fmt.Sprintf("invalid year %d: must be between %d and %d", e.Year, MinYear, MaxYear)
}

// ValidateYear returns an *InvalidYearError when year is out of bounds.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return &InvalidYearError{Year: year}
	}
	return nil
}

// isLeapYear implements the Gregorian leap rule.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysInYear returns the exact length of a calendar year.
func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}
