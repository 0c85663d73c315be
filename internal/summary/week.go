// Package summary provides shared week summary utilities.
package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
)

// SeriesStats aggregates one chart series.
type SeriesStats struct {
	Label        string
	Color        string
	TotalMinutes float64
	// BestDay is the weekday index with the most minutes, or -1 when the
	// series has no listening at all.
	BestDay     int
	BestMinutes float64
	ActiveDays  int
}

// WeekSummary holds aggregated week data and optional insight.
type WeekSummary struct {
	Range       dateutil.WeekRange
	Series      []SeriesStats
	Unavailable bool
	Insight     string
}

// SummarizeWeek aggregates every series of a chart payload.
func SummarizeWeek(p *chart.Payload) *WeekSummary {
	s := &WeekSummary{
		Range:       p.Range,
		Unavailable: p.Unavailable,
		Series:      make([]SeriesStats, 0, len(p.Series)),
	}
	for _, series := range p.Series {
		s.Series = append(s.Series, seriesStats(series))
	}
	return s
}

func seriesStats(series chart.Series) SeriesStats {
	stats := SeriesStats{
		Label:   series.Label,
		Color:   series.Color,
		BestDay: -1,
	}
	for i, v := range series.Points {
		if v == nil || *v <= 0 {
			continue
		}
		stats.TotalMinutes += *v
		stats.ActiveDays++
		if *v > stats.BestMinutes {
			stats.BestMinutes = *v
			stats.BestDay = i
		}
	}
	return stats
}

// TotalMinutes sums every series.
func (s *WeekSummary) TotalMinutes() float64 {
	var total float64
	for _, series := range s.Series {
		total += series.TotalMinutes
	}
	return total
}

// Lines renders the summary as plain text lines for the clipboard and CLI.
func (s *WeekSummary) Lines() []string {
	start, end := s.Range.Format()
	lines := []string{fmt.Sprintf("Week %s to %s", start, end)}

	if s.Unavailable {
		return append(lines, "Listening data unavailable")
	}

	for _, series := range s.Series {
		line := fmt.Sprintf("%s: %s", series.Label, FormatMinutes(series.TotalMinutes))
		if series.BestDay >= 0 {
			line += fmt.Sprintf(", best day %s (%s), %d active %s",
				dateutil.WeekdayName(series.BestDay),
				FormatMinutes(series.BestMinutes),
				series.ActiveDays,
				plural(series.ActiveDays, "day", "days"),
			)
		}
		lines = append(lines, line)
	}

	if s.Insight != "" {
		lines = append(lines, "", s.Insight)
	}
	return lines
}

// Text joins Lines with newlines.
func (s *WeekSummary) Text() string {
	return strings.Join(s.Lines(), "\n")
}

// FormatMinutes renders minutes as "1h 05m" or "42m".
func FormatMinutes(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
