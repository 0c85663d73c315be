package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/summary"
	"github.com/javiermolinar/tuneweek/internal/tui/view"
)

const (
	minLabelWidth = 10
	maxLabelWidth = 24
	dayWidth      = 7
	totalWidth    = 8
	sparkWidth    = 7
)

// padRight pads s with spaces to exactly width display cells, truncating
// with an ellipsis when it does not fit.
func padRight(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// padLeft right-aligns s in width display cells.
func padLeft(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillLeft(s, width)
}

// labelWidth fits the widest series label between the column bounds.
func labelWidth(series []chart.Series) int {
	w := minLabelWidth
	for _, s := range series {
		w = max(w, runewidth.StringWidth(s.Label))
	}
	return min(w, maxLabelWidth)
}

// PrintWeek writes the payload as a table: one row per series with the
// minutes of each day, the week total and a sparkline.
func PrintWeek(w io.Writer, p *chart.Payload, today time.Time) {
	header := fmt.Sprintf("WEEK: %s - %s", p.Range.Start.Format("Mon Jan 2"), p.Range.End.Format("Mon Jan 2, 2006"))
	_, _ = fmt.Fprintf(w, "\n  %s  %s\n", formatHeader(header), formatMuted(p.Range.String()))

	labelW := labelWidth(p.Series)
	ruleW := 2 + labelW + 7*dayWidth + totalWidth + 2 + sparkWidth
	rule := strings.Repeat("─", ruleW)
	_, _ = fmt.Fprintln(w, rule)

	if p.Unavailable {
		_, _ = fmt.Fprintf(w, "  %s\n", formatWarning("Listening data unavailable"))
		_, _ = fmt.Fprintln(w, rule)
		return
	}

	labels, todayCol := view.HeaderLabels(p.Range, today)
	var sb strings.Builder
	sb.WriteString("  " + padRight("", labelW))
	for i, l := range labels {
		cell := padLeft(l, dayWidth)
		if i == todayCol {
			cell = formatToday(cell)
		}
		sb.WriteString(cell)
	}
	sb.WriteString(padLeft("Total", totalWidth))
	_, _ = fmt.Fprintln(w, formatHeader(sb.String()))

	maxValue := p.Max()
	for _, s := range p.Series {
		sb.Reset()
		sb.WriteString("  " + padRight(s.Label, labelW))
		for _, v := range s.Points {
			if v == nil {
				sb.WriteString(formatMuted(padLeft("-", dayWidth)))
				continue
			}
			sb.WriteString(padLeft(view.FormatDuration(*v), dayWidth))
		}
		sb.WriteString(formatStats(padLeft(view.FormatDuration(s.Points.Total()), totalWidth)))
		sb.WriteString("  " + formatBar(view.Sparkline(s.Points, maxValue)))
		_, _ = fmt.Fprintln(w, sb.String())
	}
	_, _ = fmt.Fprintln(w, rule)
}

// PrintSummary writes the per-series totals, best day and active days.
func PrintSummary(w io.Writer, s *summary.WeekSummary) {
	if s.Unavailable {
		return
	}
	total := s.TotalMinutes()
	if total == 0 {
		_, _ = fmt.Fprintln(w, formatMuted("  No listening recorded this week."))
		return
	}

	// Lines starts with the week title, already printed in the table header.
	for _, line := range s.Lines()[1:] {
		if line == "" {
			break
		}
		_, _ = fmt.Fprintf(w, "  %s\n", line)
	}
	if len(s.Series) > 1 {
		_, _ = fmt.Fprintf(w, "  Combined: %s\n", formatStats(summary.FormatMinutes(total)))
	}
}

// PrintHighlights writes the week's play counts and top lists.
func PrintHighlights(w io.Writer, h *summary.Highlights) {
	header := fmt.Sprintf("TOP: %s - %s", h.Range.Start.Format("Mon Jan 2"), h.Range.End.Format("Mon Jan 2, 2006"))
	_, _ = fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
	for _, line := range h.Lines() {
		switch line {
		case "":
			_, _ = fmt.Fprintln(w)
		case summary.HeadingTopSongs, summary.HeadingTopArtists:
			_, _ = fmt.Fprintf(w, "  %s\n", formatHeader(line))
		default:
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}
	_, _ = fmt.Fprintln(w)
}

// PrintArtists writes one artist per line.
func PrintArtists(w io.Writer, artists []listening.Artist) {
	for i, a := range artists {
		_, _ = fmt.Fprintf(w, "  %2d. %s %s\n", i+1, padRight(a.Name, maxLabelWidth), formatMuted(a.ID))
	}
}

// PrintPlays writes listening history rows, newest first.
func PrintPlays(w io.Writer, plays []*listening.Play, loc *time.Location) {
	width := max(40, termWidth())
	trackW := max(12, (width-28)/2)
	artistW := max(10, width-28-trackW)
	for _, p := range plays {
		when := p.PlayedAt.In(loc).Format("Mon Jan 02 15:04")
		_, _ = fmt.Fprintf(w, "  %s  %s %s %s\n",
			formatMuted(when),
			padRight(p.TrackName, trackW),
			padRight(p.ArtistName, artistW),
			padLeft(view.FormatDuration(float64(p.DurationMs)/60000), 5),
		)
	}
}

// PrintUsers writes one user per line.
func PrintUsers(w io.Writer, users []*listening.User) {
	for _, u := range users {
		name := u.DisplayName
		if name == "" {
			name = formatMuted("(no display name)")
		}
		_, _ = fmt.Fprintf(w, "  %s %s\n", padRight(u.ID, maxLabelWidth), name)
	}
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	// Strip markdown code blocks
	text = stripMarkdownCodeBlocks(text)

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			_, _ = fmt.Fprintln(w)
			continue
		}

		prefix, content, contentWidth, isHeader := parseInsightLine(trimmed, width)
		if isHeader {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
// Returns: prefix, content, contentWidth, isHeader
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		// Bullet point
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, "THEME:"):
		content = strings.TrimSpace(trimmed)
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		// Blockquote
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4

	case isNumberedItem(trimmed):
		// Numbered item (1. or 10.)
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - runewidth.StringWidth(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	if s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.' {
		return true
	}
	return false
}

// wrapLines breaks text into lines of at most width display cells.
func wrapLines(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	continuation := strings.Repeat(" ", runewidth.StringWidth(prefix))
	for i, line := range wrapLines(text, width) {
		if i == 0 {
			_, _ = fmt.Fprintln(w, formatInsight(prefix+line))
			continue
		}
		_, _ = fmt.Fprintln(w, formatInsight(continuation+line))
	}
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue // Skip the fence line
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
