// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avandyck/retrospin/internal/models"
)

// MinSilenceDays is the minimum run of consecutive inactive days that
// qualifies as a silence period.
const MinSilenceDays = 3

// dayFormat is the UTC calendar-date key used throughout this package.
const dayFormat = "2006-01-02"

// PatternStore is the event-store surface the streak and silence detector
// needs.
type PatternStore interface {
	ActiveDates(ctx context.Context, userID string, from, to time.Time) ([]string, error)
	LastPlayBefore(ctx context.Context, userID string, t time.Time) (*models.TrackRef, error)
	FirstPlayAt(ctx context.Context, userID string, t time.Time) (*models.TrackRef, error)
}

// Patterns detects activity streaks and silence periods.
type Patterns struct {
	store PatternStore
	now   func() time.Time
}

// NewPatterns creates a streak and silence detector.
func NewPatterns(store PatternStore) *Patterns {
	return &Patterns{store: store, now: time.Now}
}

// LongestStreak walks sorted distinct active dates (YYYY-MM-DD) and returns
// the longest run of consecutive days. Returns 0 with no active days, 1 for
// any isolated day. Unparseable dates break the run.
func LongestStreak(sortedDates []string) int {
	if len(sortedDates) == 0 {
		return 0
	}

	longest, run := 1, 1
	prev, prevOK := parseDay(sortedDates[0])
	for _, raw := range sortedDates[1:] {
		cur, ok := parseDay(raw)
		if prevOK && ok && cur.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev, prevOK = cur, ok
	}
	return longest
}

// Silences detects all 3+-day inactivity gaps in one calendar year. For the
// current year the scan stops at today; past years scan the whole year. A
// year with a play on every in-range day yields an empty report.
func (p *Patterns) Silences(ctx context.Context, userID string, year int) (*models.SilenceReport, error) {
	if err := ValidateYear(year); err != nil {
		return nil, err
	}

	rangeStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	today := p.now().UTC().Truncate(24 * time.Hour)
	if today.Before(lastDay) {
		lastDay = today
	}

	report := &models.SilenceReport{Silences: []models.SilencePeriod{}}
	if lastDay.Before(rangeStart) {
		return report, nil
	}

	activeDates, err := p.store.ActiveDates(ctx, userID, rangeStart, lastDay.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("silence detection: %w", err)
	}
	active := make(map[string]struct{}, len(activeDates))
	for _, d := range activeDates {
		active[d] = struct{}{}
	}

	// Walk every calendar day in range, accumulating runs of inactive days.
	var runStart time.Time
	runLen := 0
	for day := rangeStart; !day.After(lastDay); day = day.Add(24 * time.Hour) {
		if _, ok := active[day.Format(dayFormat)]; ok {
			if err := p.closeRun(ctx, userID, report, runStart, runLen); err != nil {
				return nil, err
			}
			runLen = 0
			continue
		}
		if runLen == 0 {
			runStart = day
		}
		runLen++
	}
	if err := p.closeRun(ctx, userID, report, runStart, runLen); err != nil {
		return nil, err
	}

	return report, nil
}

// closeRun emits a silence period when a closed inactive run is long
// enough. The bracketing plays are looked up as an independent, symmetric
// pair and awaited together; ordering between pairs does not affect the
// result.
func (p *Patterns) closeRun(ctx context.Context, userID string, report *models.SilenceReport, runStart time.Time, runLen int) error {
	if runLen < MinSilenceDays {
		return nil
	}

	runEnd := runStart.Add(time.Duration(runLen-1) * 24 * time.Hour)

	var (
		wg          sync.WaitGroup
		before      *models.TrackRef
		after       *models.TrackRef
		errB, errA  error
		afterCutoff = runEnd.Add(24 * time.Hour) // day following the run's end
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		before, errB = p.store.LastPlayBefore(ctx, userID, runStart)
	}()
	go func() {
		defer wg.Done()
		after, errA = p.store.FirstPlayAt(ctx, userID, afterCutoff)
	}()
	wg.Wait()

	if errB != nil {
		return fmt.Errorf("silence bookend (before): %w", errB)
	}
	if errA != nil {
		return fmt.Errorf("silence bookend (after): %w", errA)
	}

	report.Silences = append(report.Silences, models.SilencePeriod{
		StartDate:       runStart.Format(dayFormat),
		EndDate:         runEnd.Format(dayFormat),
		Days:            runLen,
		LastTrackBefore: before,
		FirstTrackAfter: after,
	})
	report.TotalSilentDays += runLen

	return nil
}

// parseDay parses a YYYY-MM-DD date in UTC.
func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
