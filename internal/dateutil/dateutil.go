// Package dateutil provides calendar-date parsing and week arithmetic.
//
// A calendar date is represented as a time.Time at midnight UTC. Values coming
// from other locations are normalized by their written year, month, and day,
// so no daylight-saving shift can move a date across midnight.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrDateInFuture       = errors.New("date is in the future")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange represents a validated, inclusive date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a new DateRange with validation.
// startDate can be empty (defaults to today) or in YYYY-MM-DD format.
// endDate can be empty (defaults to startDate) or in YYYY-MM-DD format.
// Returns an error if endDate is before startDate.
func NewDateRange(startDate, endDate string) (*DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	var end time.Time
	if endDate == "" {
		end = start
	} else {
		end, err = ParseDate(endDate)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	return &DateRange{Start: start, End: end}, nil
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's UTC date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return Today(time.Now(), time.UTC), nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Normalize(t).Format(DateLayout)
}

// Normalize returns the calendar date written in t's own location as
// midnight UTC.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TruncateToDay is an alias of Normalize kept for call sites that read
// better with the older name.
func TruncateToDay(t time.Time) time.Time {
	return Normalize(t)
}

// DateIn converts an instant into the calendar date observed in loc.
// A nil loc means UTC.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Normalize(t.In(loc))
}

// Today returns the calendar date of now as observed in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	return DateIn(now, loc)
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return Normalize(t).AddDate(0, 0, n)
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "yesterday", "last-week" (same weekday, 7 days back)
//   - Weekday names: "monday" through "sunday" (most recent occurrence, today included)
//   - Last prefixed: "last-monday" through "last-sunday" (strictly before today)
//
// All inputs are case-insensitive.
// Returns ErrDateInFuture if an absolute date is after relativeTo.
// Returns ErrInvalidDateFormat for unrecognized input.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := Normalize(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "last-week":
		return today.AddDate(0, 0, -7), nil
	}

	if strings.HasPrefix(input, "last-") {
		weekdayName := strings.TrimPrefix(input, "last-")
		if targetDay, ok := weekdayMap[weekdayName]; ok {
			return previousWeekday(today, targetDay, false), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return previousWeekday(today, targetDay, true), nil
	}

	result, err := time.Parse(DateLayout, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	if result.After(today) {
		return time.Time{}, ErrDateInFuture
	}
	return result, nil
}

// previousWeekday returns the most recent occurrence of target on or before
// today. When includeToday is false and today is the target weekday, the
// occurrence one week earlier is returned.
func previousWeekday(today time.Time, target time.Weekday, includeToday bool) time.Time {
	daysBack := int(today.Weekday()) - int(target)
	if daysBack < 0 {
		daysBack += 7
	}
	if daysBack == 0 && !includeToday {
		daysBack = 7
	}
	return today.AddDate(0, 0, -daysBack)
}
