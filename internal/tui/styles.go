// Package tui provides the terminal dashboard for tuneweek.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tuneweek/internal/tui/theme"
	"github.com/javiermolinar/tuneweek/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg lipgloss.Color

	// Title bar
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	NavStyle      lipgloss.Style
	NavOffStyle   lipgloss.Style
	LoadingStyle  lipgloss.Style

	// Chart table
	Chart view.ChartStyles

	// Unavailable notice
	WarningStyle lipgloss.Style

	// Footer
	ChipStyle   lipgloss.Style
	MutedStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Prompt
	PromptStyle        lipgloss.Style
	PromptLabelStyle   lipgloss.Style
	PromptTextStyle    lipgloss.Style
	PlaceholderStyle   lipgloss.Style
	SuggestionStyle    lipgloss.Style
	SuggestionSelStyle lipgloss.Style

	// Panels
	PanelStyle      lipgloss.Style
	PanelTitleStyle lipgloss.Style
	ChatUserStyle   lipgloss.Style
	ChatBotStyle    lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{
		palette: p,
		colorBg: p.Bg,
	}

	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnAccent).
		Background(p.Accent).
		Padding(0, 1)
	s.SubtitleStyle = base.Bold(true)
	s.NavStyle = base.Foreground(p.Accent).Bold(true)
	s.NavOffStyle = base.Foreground(p.Gap)
	s.LoadingStyle = base.Foreground(p.FgMuted).Italic(true)

	s.Chart = view.ChartStyles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(p.Fg).Align(lipgloss.Center),
		HeaderToday: lipgloss.NewStyle().Bold(true).Foreground(p.TextOnToday).Background(p.Today).Align(lipgloss.Center),
		Label:       lipgloss.NewStyle().Foreground(p.Fg),
		Value:       lipgloss.NewStyle().Foreground(p.FgMuted),
		Gap:         lipgloss.NewStyle().Foreground(p.Gap),
		Total:       lipgloss.NewStyle().Bold(true).Foreground(p.Fg).Align(lipgloss.Right),
		Border:      lipgloss.NewStyle().Foreground(p.Accent),
	}

	s.WarningStyle = lipgloss.NewStyle().
		Foreground(p.TextOnWarning).
		Background(p.Warning).
		Bold(true).
		Padding(0, 1)

	s.ChipStyle = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.BgHighlight).
		Padding(0, 1)
	s.MutedStyle = base.Foreground(p.FgMuted)
	s.StatusStyle = base.Foreground(p.Accent)
	s.ErrorStyle = base.Foreground(p.Warning).Bold(true)
	s.HelpStyle = base.Foreground(p.FgMuted)

	s.PromptStyle = base
	s.PromptLabelStyle = base.Foreground(p.Accent).Bold(true)
	s.PromptTextStyle = base
	s.PlaceholderStyle = base.Foreground(p.FgMuted)
	s.SuggestionStyle = lipgloss.NewStyle().Foreground(p.Fg)
	s.SuggestionSelStyle = lipgloss.NewStyle().Foreground(p.Fg).Background(p.BgSelection).Bold(true)

	s.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.PanelBorder).
		Background(p.PanelBg).
		Foreground(p.Fg).
		Padding(0, 1)
	s.PanelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.ChatUserStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.ChatBotStyle = lipgloss.NewStyle().Foreground(p.Fg)

	s.AppStyle = base.Padding(0, 1)

	return s
}

// SeriesColors returns the bar and track colors for a series color.
func (s *Styles) SeriesColors(hex string) (bar, track lipgloss.Color) {
	return s.palette.SeriesBar(hex), s.palette.SeriesTrack(hex)
}
