package view

import (
	"strconv"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
)

// WeekTitle is the heading above the chart. The live week reads
// "This Week"; any other week shows both ends in long form.
func WeekTitle(rng dateutil.WeekRange, isCurrent bool) string {
	if isCurrent {
		return "This Week"
	}
	const layout = "2 January 2006"
	return rng.Start.Format(layout) + " - " + rng.End.Format(layout)
}

// HeaderLabels builds the day column labels and returns the index of
// today's column, or -1 when today is outside the range.
func HeaderLabels(rng dateutil.WeekRange, today time.Time) ([7]string, int) {
	var labels [7]string
	todayCol := -1
	for i, day := range rng.Days() {
		labels[i] = dateutil.WeekdayShortName(i) + " " + strconv.Itoa(day.Day())
		if sameDay(day, today) {
			todayCol = i
		}
	}
	return labels, todayCol
}

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
