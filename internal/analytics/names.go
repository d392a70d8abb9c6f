// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package analytics

// Localized label tables are pure data lookups indexed by the same numeric
// keys the store groups by, keeping the mappings exhaustive and testable.

// dayNames is indexed by day of week, 0 = Sunday through 6 = Saturday.
var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// monthNames is indexed by month-1.
var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// seasonNames is indexed by month-1 (northern-hemisphere seasons).
var seasonNames = [12]string{
	"winter", "winter", "spring", "spring", "spring", "summer",
	"summer", "summer", "autumn", "autumn", "autumn", "winter",
}

// hourLabels is indexed by hour of day, 0-23.
var hourLabels = [24]string{
	"night", "night", "night", "night", "night", "night",
	"morning", "morning", "morning", "morning", "morning", "morning",
	"afternoon", "afternoon", "afternoon", "afternoon", "afternoon", "afternoon",
	"evening", "evening", "evening", "evening", "evening", "evening",
}

// DayName returns the localized name for a 0 (Sunday) - 6 (Saturday) index.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return dayNames[day]
}

// MonthName returns the localized name for a 1-12 month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// SeasonName returns the season label for a 1-12 month.
func SeasonName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return seasonNames[month-1]
}

// TimeOfDayLabel returns the label for a 0-23 hour.
func TimeOfDayLabel(hour int) string {
	if hour < 0 || hour > 23 {
		return ""
	}
	return hourLabels[hour]
}
