// Package chart turns listening events into weekly per-day chart series.
package chart

import (
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// Points holds one value per weekday, Monday first. A nil point is a day
// with no data expected yet and renders as a gap, not as zero.
type Points [7]*float64

// Values returns the points with nil replaced by zero.
func (p Points) Values() [7]float64 {
	var out [7]float64
	for i, v := range p {
		if v != nil {
			out[i] = *v
		}
	}
	return out
}

// Total sums the non-nil points.
func (p Points) Total() float64 {
	var total float64
	for _, v := range p {
		if v != nil {
			total += *v
		}
	}
	return total
}

// BuildOptions controls current-week detection.
type BuildOptions struct {
	// Today is the reference date. Zero means the current UTC date.
	Today time.Time
	// CurrentWeek overrides the week comparison against Today.
	CurrentWeek *bool
}

// Build buckets events into the seven days of rng.
//
// For the current week, days before today report their total (zero when
// nothing was played), today reports nil until something has been played,
// and later days are nil. Any other week reports a number for every day.
// Events outside rng are ignored.
func Build(events []listening.Event, rng dateutil.WeekRange, opts BuildOptions) (Points, error) {
	var points Points
	if err := rng.Validate(); err != nil {
		return points, err
	}

	var minutes [7]float64
	var plays [7]int
	for _, e := range events {
		if !rng.Contains(e.Date) {
			continue
		}
		i := dateutil.WeekdayIndex(dateutil.Normalize(e.Date))
		minutes[i] += e.Minutes()
		plays[i]++
	}

	today := opts.Today
	if today.IsZero() {
		today = dateutil.Today(time.Now(), time.UTC)
	}
	today = dateutil.Normalize(today)

	current := dateutil.SameWeek(today, rng.Start)
	if opts.CurrentWeek != nil {
		current = *opts.CurrentWeek
	}
	todayIndex := dateutil.WeekdayIndex(today)

	for i := range points {
		if current {
			if i > todayIndex {
				continue
			}
			if i == todayIndex && plays[i] == 0 {
				continue
			}
		}
		v := minutes[i]
		points[i] = &v
	}
	return points, nil
}

// Zero returns seven zero points, used when a range cannot be built.
func Zero() Points {
	var points Points
	for i := range points {
		v := 0.0
		points[i] = &v
	}
	return points
}
