package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/summary"
	"github.com/javiermolinar/tuneweek/internal/tui/view"
)

const (
	helpNormal = "h/l week · t today · / add artist · d remove · x clear · s summary · i insight · c chat · y copy · q quit"
	helpSearch = "type to search · ↑/↓ select · enter add · esc cancel"
	helpChat   = "enter send · tab complete · /clear · /copy · esc close"

	maxSuggestionsShown = 9
)

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	innerW := m.width - 2
	if innerW <= 20 || m.height < 8 {
		return "Terminal too small"
	}

	title := m.renderTitle(innerW)
	body := m.renderChart(innerW)
	footer := view.RenderFooter(m.footerViewState(innerW))

	used := lipgloss.Height(title) + 1 + lipgloss.Height(body) + lipgloss.Height(footer)
	sections := []string{title, "", body}
	if panel := m.renderPanel(innerW, m.height-used-2); panel != "" {
		sections = append(sections, panel)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	contentH := max(0, m.height-lipgloss.Height(footer))
	content = view.PadLinesWithBackground(content, innerW, contentH, m.styles.colorBg)
	app := m.styles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, content, footer))
	return view.PadLinesWithBackground(app, m.width, m.height, m.styles.colorBg)
}

func (m Model) renderTitle(width int) string {
	nav := m.session.Navigator()
	current := nav.Current()

	prev := m.styles.NavOffStyle.Render("◀")
	if nav.CanGoPrevious() {
		prev = m.styles.NavStyle.Render("◀")
	}
	next := m.styles.NavOffStyle.Render("▶")
	if nav.CanGoNext() {
		next = m.styles.NavStyle.Render("▶")
	}

	line := m.styles.TitleStyle.Render("tuneweek") + " " +
		prev + " " + m.styles.SubtitleStyle.Render(view.WeekTitle(current, nav.IsCurrentWeek())) + " " + next
	if m.loading() {
		line += " " + m.styles.LoadingStyle.Render("loading…")
	}
	return view.Truncate(line, width)
}

// loading reports whether the chart on screen is not yet the week the
// navigator points at.
func (m Model) loading() bool {
	return m.payload == nil || !m.payload.Range.Equal(m.session.Navigator().Current())
}

func (m Model) renderChart(width int) string {
	if m.payload == nil {
		return m.styles.LoadingStyle.Render("Loading listening data...")
	}
	if m.payload.Unavailable {
		notice := m.styles.WarningStyle.Render("Listening data unavailable")
		detail := m.styles.MutedStyle.Render("Press r to retry.")
		return notice + "\n" + detail
	}

	headers, todayCol := view.HeaderLabels(m.payload.Range, m.session.Navigator().Today())
	rows := make([]view.ChartRow, 0, len(m.payload.Series))
	for _, s := range m.payload.Series {
		bar, track := m.styles.SeriesColors(s.Color)
		rows = append(rows, view.ChartRow{
			Label:  s.Label,
			Points: s.Points,
			Total:  s.Points.Total(),
			Bar:    bar,
			Track:  track,
		})
	}

	return view.RenderChart(view.ChartViewState{
		Width:    width,
		Headers:  headers,
		TodayCol: todayCol,
		Rows:     rows,
		Max:      m.payload.Max(),
		Styles:   m.styles.Chart,
	})
}

func (m Model) renderPanel(width, height int) string {
	maxLines := max(1, height-3)
	state := view.PanelViewState{
		Width:      width,
		MaxLines:   maxLines,
		Style:      m.styles.PanelStyle,
		TitleStyle: m.styles.PanelTitleStyle,
	}

	switch {
	case m.mode == ModeSearch:
		state.Title = "Artists"
		state.Lines = m.suggestionLines()
	case m.panel == PanelSummary && m.payload != nil:
		state.Title = "Week summary"
		state.Lines = m.weekSummary().Lines()[1:]
		if m.highlights != nil && m.highlights.Range.Equal(m.payload.Range) {
			state.Lines = append(state.Lines, "")
			state.Lines = append(state.Lines, m.highlights.Lines()...)
		}
	case m.panel == PanelChat:
		state.Title = "Chat"
		state.Lines = m.chatLines()
	default:
		return ""
	}
	if height < 3 {
		return ""
	}
	return view.RenderPanel(state)
}

func (m Model) suggestionLines() []string {
	if strings.TrimSpace(m.search.Value()) == "" {
		return []string{m.styles.MutedStyle.Render("Start typing an artist you have listened to")}
	}
	if len(m.suggestions) == 0 {
		return []string{m.styles.MutedStyle.Render("No matches")}
	}

	lines := make([]string, 0, min(len(m.suggestions), maxSuggestionsShown))
	for i, a := range m.suggestions {
		if i == maxSuggestionsShown {
			break
		}
		line := fmt.Sprintf("%d. %s", i+1, artistLabel(a))
		if i == m.selected {
			lines = append(lines, m.styles.SuggestionSelStyle.Render(line))
			continue
		}
		lines = append(lines, m.styles.SuggestionStyle.Render(line))
	}
	return lines
}

func (m Model) chatLines() []string {
	if len(m.chatLog) == 0 && !m.chatPending {
		return []string{m.styles.MutedStyle.Render("Ask anything about your listening.")}
	}
	lines := make([]string, 0, len(m.chatLog)+1)
	for _, l := range m.chatLog {
		if l.fromUser {
			lines = append(lines, m.styles.ChatUserStyle.Render("you › ")+l.text)
			continue
		}
		lines = append(lines, m.styles.ChatBotStyle.Render(l.text))
	}
	if m.chatPending {
		lines = append(lines, m.styles.MutedStyle.Render("thinking…"))
	}
	return lines
}

func (m Model) footerViewState(width int) view.FooterViewState {
	artists := m.session.Artists()
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, artistLabel(a))
	}

	state := view.FooterViewState{
		InnerW:      width,
		Artists:     names,
		StatusText:  m.statusText(),
		HelpText:    helpNormal,
		ChipStyle:   m.styles.ChipStyle,
		MutedStyle:  m.styles.MutedStyle,
		StatusStyle: m.styles.StatusStyle,
		HelpStyle:   m.styles.HelpStyle,
		Bg:          m.styles.colorBg,
	}
	if m.statusErr && m.statusMsg != "" && time.Now().Before(m.statusTime) {
		state.StatusStyle = m.styles.ErrorStyle
	}

	switch m.mode {
	case ModeSearch:
		state.ShowPrompt = true
		state.PromptLine = m.styles.PromptLabelStyle.Render("artist › ") + m.search.View()
		state.HelpText = helpSearch
	case ModeChat:
		state.ShowPrompt = true
		state.PromptLine = m.styles.PromptLabelStyle.Render("ask › ") + m.chatInput.View()
		state.HelpText = helpChat
	}
	return state
}

func (m Model) statusText() string {
	if m.statusMsg != "" && time.Now().Before(m.statusTime) {
		return m.statusMsg
	}
	if m.payload == nil || m.payload.Unavailable {
		return ""
	}
	total := summary.SummarizeWeek(m.payload).TotalMinutes()
	if total == 0 {
		return "No listening recorded this week"
	}
	return "Listened " + summary.FormatMinutes(total) + " this week"
}

func artistLabel(a listening.Artist) string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
