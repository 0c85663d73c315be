package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PanelViewState describes a bordered panel below the chart, used for the
// week summary, artist suggestions and the chat transcript.
type PanelViewState struct {
	Title      string
	Lines      []string
	Width      int
	MaxLines   int
	Style      lipgloss.Style
	TitleStyle lipgloss.Style
}

// RenderPanel renders the panel. When there are more lines than fit, the
// newest lines are kept.
func RenderPanel(state PanelViewState) string {
	if state.Width <= 4 {
		return ""
	}
	inner := state.Width - 4

	lines := state.Lines
	if state.MaxLines > 0 && len(lines) > state.MaxLines {
		lines = lines[len(lines)-state.MaxLines:]
	}

	body := make([]string, 0, len(lines)+1)
	if state.Title != "" {
		body = append(body, state.TitleStyle.Render(Truncate(state.Title, inner)))
	}
	for _, l := range lines {
		body = append(body, Wrap(l, inner)...)
	}

	return state.Style.Width(state.Width - 2).Render(strings.Join(body, "\n"))
}

// Wrap splits s on word boundaries so no line exceeds width cells.
func Wrap(s string, width int) []string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return []string{s}
	}

	var (
		lines []string
		cur   strings.Builder
	)
	for _, word := range strings.Fields(s) {
		for lipgloss.Width(word) > width {
			if cur.Len() > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
			}
			lines = append(lines, Truncate(word, width))
			word = ""
		}
		if word == "" {
			continue
		}
		switch {
		case cur.Len() == 0:
			cur.WriteString(word)
		case lipgloss.Width(cur.String())+1+lipgloss.Width(word) <= width:
			cur.WriteString(" " + word)
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(word)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
