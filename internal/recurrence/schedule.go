// Package recurrence is the canonical engine for recurring transactions:
// pure occurrence-date arithmetic plus the materializer that turns due
// occurrences into persisted transactions exactly once. Every client
// (mobile, web, CLI, server-side sweeps) runs this same engine so their
// checkpoint semantics cannot drift.
package recurrence

import (
	"fmt"
	"time"

	"bucketeer/internal/models"
)

// DateOnly truncates a timestamp to its calendar date, keeping the
// location. All schedule arithmetic operates on such values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date, each
// read in its own location.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// beforeDay reports whether a's calendar date precedes b's. Schedule
// bounds are compared this way rather than as instants: asOf is the
// client-local calendar date and stored dates are often UTC midnights,
// so instant comparison would make today's occurrence not yet due for
// any client east of UTC.
func beforeDay(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() < b.Year()
	}
	if a.Month() != b.Month() {
		return a.Month() < b.Month()
	}
	return a.Day() < b.Day()
}

// NextOccurrence returns the first occurrence after lastApplied, or
// startDate itself when lastApplied is the zero time (nothing has been
// materialized yet).
//
// Monthly and yearly schedules anchor to startDate's day-of-month (and
// month, for yearly), clamping to the last day of shorter months: a
// schedule anchored on the 31st lands on Feb 28/29 and returns to the
// 31st in March. A Feb 29 yearly anchor lands on Feb 28 off leap years.
func NextOccurrence(freq models.Frequency, startDate, lastApplied time.Time) (time.Time, error) {
	start := DateOnly(startDate)
	if lastApplied.IsZero() {
		return start, nil
	}

	last := DateOnly(lastApplied)
	if beforeDay(last, start) {
		// A checkpoint before the start date is invalid; treat it as absent.
		return start, nil
	}

	switch freq {
	case models.FrequencyDaily:
		return last.AddDate(0, 0, 1), nil
	case models.FrequencyWeekly:
		return last.AddDate(0, 0, 7), nil
	case models.FrequencyFortnightly:
		return last.AddDate(0, 0, 14), nil
	case models.FrequencyMonthly:
		return monthAnchored(last, 1, start.Day()), nil
	case models.FrequencyYearly:
		return yearAnchored(last, start.Month(), start.Day()), nil
	default:
		return time.Time{}, fmt.Errorf("unknown frequency %q", freq)
	}
}

// OccurrencesDue enumerates, in strictly increasing order, every
// occurrence after lastApplied that falls on or before both asOf and
// endDate (when set). The walk stops at the first candidate beyond
// either bound, so the cost is proportional to the number of due dates:
// a start date in the future yields an empty slice immediately.
func OccurrencesDue(freq models.Frequency, startDate time.Time, endDate, lastApplied *time.Time, asOf time.Time) ([]time.Time, error) {
	start := DateOnly(startDate)
	horizon := DateOnly(asOf)
	if beforeDay(horizon, start) {
		return nil, nil
	}

	var end time.Time
	if endDate != nil {
		end = DateOnly(*endDate)
		if beforeDay(end, start) {
			return nil, nil
		}
		if beforeDay(end, horizon) {
			horizon = end
		}
	}

	var last time.Time
	if lastApplied != nil {
		last = DateOnly(*lastApplied)
	}

	var due []time.Time
	for {
		next, err := NextOccurrence(freq, start, last)
		if err != nil {
			return nil, err
		}
		if beforeDay(horizon, next) {
			return due, nil
		}
		due = append(due, next)
		last = next
	}
}

// monthAnchored advances by months months, pinning the day-of-month to
// anchorDay clamped to the target month's length. time.AddDate is
// avoided because it normalizes Jan 31 + 1 month into Mar 2/3.
func monthAnchored(from time.Time, months, anchorDay int) time.Time {
	year, month := from.Year(), int(from.Month())+months
	for month > 12 {
		month -= 12
		year++
	}
	day := anchorDay
	if max := daysIn(year, time.Month(month)); day > max {
		day = max
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, from.Location())
}

// yearAnchored advances one year, pinning to the anchor month/day with
// the same clamping rule (relevant only for Feb 29 anchors).
func yearAnchored(from time.Time, anchorMonth time.Month, anchorDay int) time.Time {
	year := from.Year() + 1
	day := anchorDay
	if max := daysIn(year, anchorMonth); day > max {
		day = max
	}
	return time.Date(year, anchorMonth, day, 0, 0, 0, 0, from.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
