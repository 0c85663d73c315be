package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/tuneweek/internal/chart"
)

const (
	minLabelWidth = 8
	maxLabelWidth = 22
	minCellWidth  = 5
	totalWidth    = 8
	trendWidth    = 7
)

// ChartRow is one series as the table draws it.
type ChartRow struct {
	Label  string
	Points chart.Points
	Total  float64
	Bar    lipgloss.Color
	Track  lipgloss.Color
}

// ChartStyles are the styles the chart table needs.
type ChartStyles struct {
	Header      lipgloss.Style
	HeaderToday lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Gap         lipgloss.Style
	Total       lipgloss.Style
	Border      lipgloss.Style
}

// ChartViewState holds everything needed to render the week table.
type ChartViewState struct {
	Width    int
	Headers  [7]string
	TodayCol int
	Rows     []ChartRow
	Max      float64
	Styles   ChartStyles
}

// ChartLayout is the column sizing for a given width.
type ChartLayout struct {
	LabelW int
	CellW  int
}

// LayoutChart sizes the label and day columns for width. The label column
// takes what the longest label needs within bounds; days share the rest.
func LayoutChart(width int, rows []ChartRow) ChartLayout {
	labelW := minLabelWidth
	for _, r := range rows {
		labelW = max(labelW, ansi.StringWidth(r.Label)+2)
	}
	labelW = min(labelW, maxLabelWidth)

	// Ten vertical borders: outer pair plus one between each of the ten columns.
	remaining := width - labelW - totalWidth - trendWidth - 10
	cellW := max(minCellWidth, remaining/7)
	return ChartLayout{LabelW: labelW, CellW: cellW}
}

// RenderChart renders the week as a table: one row per series, a bar and
// the minutes in each day cell, then the weekly total and a sparkline.
func RenderChart(state ChartViewState) string {
	layout := LayoutChart(state.Width, state.Rows)

	headers := make([]string, 0, 10)
	headers = append(headers, "")
	headers = append(headers, state.Headers[:]...)
	headers = append(headers, "Total", "Trend")

	rows := make([][]string, 0, len(state.Rows))
	for _, r := range state.Rows {
		rows = append(rows, chartRow(r, state, layout))
	}

	t := table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(true).
		BorderStyle(state.Styles.Border).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			width := columnWidth(col, layout)
			if row == table.HeaderRow {
				if col-1 == state.TodayCol {
					return state.Styles.HeaderToday.Width(width)
				}
				return state.Styles.Header.Width(width)
			}
			switch {
			case col == 0:
				return state.Styles.Label.Width(width)
			case col == 8:
				return state.Styles.Total.Width(width)
			default:
				return lipgloss.NewStyle().Width(width)
			}
		})

	return t.Render()
}

func columnWidth(col int, layout ChartLayout) int {
	switch col {
	case 0:
		return layout.LabelW
	case 8:
		return totalWidth
	case 9:
		return trendWidth
	default:
		return layout.CellW
	}
}

func chartRow(r ChartRow, state ChartViewState, layout ChartLayout) []string {
	barStyle := lipgloss.NewStyle().Foreground(r.Bar).Background(r.Track)
	dot := lipgloss.NewStyle().Foreground(r.Bar).Render("● ")

	cells := make([]string, 0, 10)
	cells = append(cells, dot+ansi.Truncate(r.Label, layout.LabelW-2, "…"))
	for _, p := range r.Points {
		if p == nil {
			cells = append(cells, state.Styles.Gap.Render("·")+"\n"+state.Styles.Gap.Render("-"))
			continue
		}
		cells = append(cells, barStyle.Render(Bar(*p, state.Max, layout.CellW))+"\n"+state.Styles.Value.Render(FormatDuration(*p)))
	}
	cells = append(cells, FormatDuration(r.Total))
	cells = append(cells, lipgloss.NewStyle().Foreground(r.Bar).Render(Sparkline(r.Points, state.Max)))
	return cells
}
