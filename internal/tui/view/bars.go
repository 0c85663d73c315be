package view

import (
	"math"
	"strings"

	"github.com/javiermolinar/tuneweek/internal/chart"
)

var (
	eighths = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}
	levels  = []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}
)

// Bar draws value/max as a horizontal bar exactly width cells wide, using
// eighth blocks for the fractional cell. Any positive value shows at least
// a sliver.
func Bar(value, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = int(math.Round(math.Min(value/max, 1) * float64(width*8)))
		filled = min(width*8, filled)
		if filled == 0 {
			filled = 1
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", filled/8))
	cells := filled / 8
	if rem := filled % 8; rem > 0 {
		sb.WriteString(eighths[rem])
		cells++
	}
	sb.WriteString(strings.Repeat(" ", width-cells))
	return sb.String()
}

// Sparkline draws one block per day scaled to max. Gaps are blank and
// zero days sit on the baseline.
func Sparkline(points chart.Points, max float64) string {
	var sb strings.Builder
	for _, p := range points {
		switch {
		case p == nil:
			sb.WriteString(" ")
		case *p <= 0 || max <= 0:
			sb.WriteString(levels[0])
		default:
			level := 1 + int(math.Round(math.Min(*p/max, 1)*float64(len(levels)-2)))
			sb.WriteString(levels[level])
		}
	}
	return sb.String()
}
