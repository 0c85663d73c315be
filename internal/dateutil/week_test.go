package dateutil

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday is its own monday", date(2025, 1, 13), date(2025, 1, 13)},
		{"wednesday", date(2025, 1, 15), date(2025, 1, 13)},
		{"sunday belongs to previous monday", date(2025, 1, 19), date(2025, 1, 13)},
		{"year boundary", date(2025, 1, 1), date(2024, 12, 30)},
		{"leap day", date(2024, 2, 29), date(2024, 2, 26)},
		{"march after leap day", date(2024, 3, 3), date(2024, 2, 26)},
		{"european dst switch", date(2024, 3, 31), date(2024, 3, 25)},
		{"us dst switch", date(2024, 11, 3), date(2024, 10, 28)},
		{"late evening in a western zone", time.Date(2025, 1, 19, 23, 59, 0, 0, time.FixedZone("PST", -8*60*60)), date(2025, 1, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MondayOf(tt.in); !got.Equal(tt.want) {
				t.Errorf("MondayOf(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMondayOf_Properties(t *testing.T) {
	// Walk every day of four years, leap year and DST switches included.
	start := date(2023, 1, 1)
	for i := 0; i < 4*366; i++ {
		d := start.AddDate(0, 0, i)
		monday := MondayOf(d)
		if monday.Weekday() != time.Monday {
			t.Fatalf("MondayOf(%s) = %s, a %s", FormatDate(d), FormatDate(monday), monday.Weekday())
		}
		if again := MondayOf(monday); !again.Equal(monday) {
			t.Fatalf("MondayOf not idempotent for %s: %s then %s", FormatDate(d), FormatDate(monday), FormatDate(again))
		}
		if d.Sub(monday) < 0 || d.Sub(monday) > 6*24*time.Hour {
			t.Fatalf("MondayOf(%s) = %s is not within the preceding six days", FormatDate(d), FormatDate(monday))
		}

		r := WeekRangeOf(d)
		if !r.End.Equal(r.Start.AddDate(0, 0, 6)) {
			t.Fatalf("WeekRangeOf(%s) end = %s, want start+6d", FormatDate(d), FormatDate(r.End))
		}
		if err := r.Validate(); err != nil {
			t.Fatalf("WeekRangeOf(%s) invalid: %v", FormatDate(d), err)
		}
		if !r.Contains(d) {
			t.Fatalf("WeekRangeOf(%s) does not contain its date", FormatDate(d))
		}
	}
}

func TestSameWeek(t *testing.T) {
	tests := []struct {
		a, b time.Time
		want bool
	}{
		{date(2025, 1, 13), date(2025, 1, 19), true},
		{date(2025, 1, 19), date(2025, 1, 20), false},
		{date(2024, 12, 31), date(2025, 1, 5), true},
		{date(2025, 1, 12), date(2025, 1, 13), false},
	}

	for _, tt := range tests {
		if got := SameWeek(tt.a, tt.b); got != tt.want {
			t.Errorf("SameWeek(%s, %s) = %v, want %v", FormatDate(tt.a), FormatDate(tt.b), got, tt.want)
		}
	}
}

func TestWeekdayIndex(t *testing.T) {
	for i, d := range WeekRangeOf(date(2025, 6, 4)).Days() {
		if got := WeekdayIndex(d); got != i {
			t.Errorf("WeekdayIndex(%s) = %d, want %d", d.Weekday(), got, i)
		}
	}
}

func TestWeekRange_PreviousNext(t *testing.T) {
	r := WeekRangeOf(date(2025, 1, 1))

	prev := r.Previous()
	if !prev.Start.Equal(date(2024, 12, 23)) || !prev.End.Equal(date(2024, 12, 29)) {
		t.Errorf("Previous() = %s", prev)
	}

	next := r.Next()
	if !next.Start.Equal(date(2025, 1, 6)) || !next.End.Equal(date(2025, 1, 12)) {
		t.Errorf("Next() = %s", next)
	}

	if !next.Previous().Equal(r) {
		t.Errorf("Next().Previous() = %s, want %s", next.Previous(), r)
	}
	if !prev.Before(r) || !next.After(r) {
		t.Error("ordering helpers disagree with Previous/Next")
	}
}

func TestWeekRange_FormatParseRoundTrip(t *testing.T) {
	start := date(2020, 1, 1)
	for i := 0; i < 400; i += 3 {
		r := WeekRangeOf(start.AddDate(0, 0, i*7/3))
		s, e := r.Format()
		parsed, err := ParseWeekRange(s, e)
		if err != nil {
			t.Fatalf("ParseWeekRange(%q, %q) error: %v", s, e, err)
		}
		if !parsed.Equal(r) {
			t.Fatalf("round trip %s -> %s", r, parsed)
		}
	}
}

func TestWeekRange_JSON(t *testing.T) {
	r := WeekRangeOf(date(2025, 3, 5))

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"startDate":"2025-03-03","endDate":"2025-03-09"}` {
		t.Errorf("marshal = %s", data)
	}

	var decoded WeekRange
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(r) {
		t.Errorf("decoded = %s, want %s", decoded, r)
	}
}

func TestWeekRange_Validate(t *testing.T) {
	tests := []struct {
		name string
		r    WeekRange
	}{
		{"zero value", WeekRange{}},
		{"inverted", WeekRange{Start: date(2025, 1, 19), End: date(2025, 1, 13)}},
		{"not a monday", WeekRange{Start: date(2025, 1, 14), End: date(2025, 1, 20)}},
		{"wrong span", WeekRange{Start: date(2025, 1, 13), End: date(2025, 1, 18)}},
		{"not midnight", WeekRange{Start: date(2025, 1, 13).Add(time.Hour), End: date(2025, 1, 19)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("Validate() = %v, want ErrInvalidRange", err)
			}
			var rangeErr *InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("Validate() error type = %T", err)
			}
		})
	}
}

func TestParseWeekRange_Errors(t *testing.T) {
	tests := []struct {
		start, end string
	}{
		{"not-a-date", "2025-01-19"},
		{"2025-01-13", "garbage"},
		{"2025-01-14", "2025-01-20"},
		{"2025-01-19", "2025-01-13"},
	}

	for _, tt := range tests {
		if _, err := ParseWeekRange(tt.start, tt.end); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("ParseWeekRange(%q, %q) error = %v, want ErrInvalidRange", tt.start, tt.end, err)
		}
	}
}
