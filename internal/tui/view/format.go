// Package view provides rendering helpers for the TUI.
package view

import (
	"fmt"
	"math"
)

// FormatDuration formats minutes compactly for a chart cell: "43m", "2h",
// "2h05".
func FormatDuration(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	h := total / 60
	m := total % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02d", h, m)
}
