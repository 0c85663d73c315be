package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Bars: cyan like the dashboard accent
	colorBar = color.New(color.FgCyan)

	// Today's column: bold green
	colorToday = color.New(color.FgGreen, color.Bold)

	// Insight: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Stats: green for totals
	colorStats = color.New(color.FgGreen)

	// Warnings: unavailable data
	colorWarning = color.New(color.FgRed)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatBar(s string) string {
	return colorBar.Sprint(s)
}

func formatToday(s string) string {
	return colorToday.Sprint(s)
}

func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
