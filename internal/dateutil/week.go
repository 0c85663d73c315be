package dateutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is matched by every *InvalidRangeError.
var ErrInvalidRange = errors.New("invalid week range")

// InvalidRangeError reports a malformed or inverted WeekRange.
type InvalidRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid week range %s..%s: %s", e.Start, e.End, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidRange) hold for any InvalidRangeError.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// WeekRange is a Monday-to-Sunday calendar week. End is always Start plus
// six days; both are midnight UTC.
type WeekRange struct {
	Start time.Time
	End   time.Time
}

type weekRangeJSON struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// MarshalJSON encodes the boundaries as YYYY-MM-DD strings.
func (r WeekRange) MarshalJSON() ([]byte, error) {
	start, end := r.Format()
	return json.Marshal(weekRangeJSON{StartDate: start, EndDate: end})
}

// UnmarshalJSON decodes and validates YYYY-MM-DD boundaries.
func (r *WeekRange) UnmarshalJSON(data []byte) error {
	var raw weekRangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseWeekRange(raw.StartDate, raw.EndDate)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MondayOf returns the Monday on or before d.
func MondayOf(d time.Time) time.Time {
	d = Normalize(d)
	return d.AddDate(0, 0, -WeekdayIndex(d))
}

// WeekRangeOf returns the week containing d.
func WeekRangeOf(d time.Time) WeekRange {
	monday := MondayOf(d)
	return WeekRange{Start: monday, End: monday.AddDate(0, 0, 6)}
}

// SameWeek reports whether a and b fall in the same Monday-aligned week.
func SameWeek(a, b time.Time) bool {
	return MondayOf(a).Equal(MondayOf(b))
}

// WeekdayIndex returns 0 for Monday through 6 for Sunday.
func WeekdayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// ParseWeekRange parses YYYY-MM-DD boundaries and validates the result.
func ParseWeekRange(start, end string) (WeekRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return WeekRange{}, &InvalidRangeError{Start: start, End: end, Reason: "unparseable start date"}
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return WeekRange{}, &InvalidRangeError{Start: start, End: end, Reason: "unparseable end date"}
	}
	r := WeekRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return WeekRange{}, err
	}
	return r, nil
}

// Validate checks the Monday alignment and the six-day span.
func (r WeekRange) Validate() error {
	start, end := r.Format()
	switch {
	case r.Start.IsZero() || r.End.IsZero():
		return &InvalidRangeError{Start: start, End: end, Reason: "missing boundary"}
	case r.End.Before(r.Start):
		return &InvalidRangeError{Start: start, End: end, Reason: "end before start"}
	case !r.Start.Equal(Normalize(r.Start)) || !r.End.Equal(Normalize(r.End)):
		return &InvalidRangeError{Start: start, End: end, Reason: "boundaries must be UTC midnight"}
	case r.Start.Weekday() != time.Monday:
		return &InvalidRangeError{Start: start, End: end, Reason: "start is not a Monday"}
	case !r.End.Equal(r.Start.AddDate(0, 0, 6)):
		return &InvalidRangeError{Start: start, End: end, Reason: "end is not six days after start"}
	}
	return nil
}

// Format returns the boundaries as YYYY-MM-DD strings.
func (r WeekRange) Format() (start, end string) {
	return r.Start.Format(DateLayout), r.End.Format(DateLayout)
}

func (r WeekRange) String() string {
	start, end := r.Format()
	return start + ".." + end
}

// Previous returns the week before r.
func (r WeekRange) Previous() WeekRange {
	return WeekRangeOf(r.Start.AddDate(0, 0, -1))
}

// Next returns the week after r.
func (r WeekRange) Next() WeekRange {
	return WeekRangeOf(r.End.AddDate(0, 0, 1))
}

// Equal reports whether both ranges start on the same Monday.
func (r WeekRange) Equal(other WeekRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// Before reports whether r starts before other.
func (r WeekRange) Before(other WeekRange) bool {
	return r.Start.Before(other.Start)
}

// After reports whether r starts after other.
func (r WeekRange) After(other WeekRange) bool {
	return r.Start.After(other.Start)
}

// Contains reports whether the calendar date d falls inside r, inclusive.
func (r WeekRange) Contains(d time.Time) bool {
	d = Normalize(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the seven dates of the week, Monday first.
func (r WeekRange) Days() [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = r.Start.AddDate(0, 0, i)
	}
	return days
}

// WeekdayName returns the English name of the weekday (0=Monday).
func WeekdayName(weekday int) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return names[weekday]
}

// WeekdayShortName returns the short name of the weekday (0=Monday).
func WeekdayShortName(weekday int) string {
	names := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return names[weekday]
}
