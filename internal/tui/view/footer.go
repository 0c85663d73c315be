package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW      int
	Artists     []string
	PromptLine  string
	ShowPrompt  bool
	StatusText  string
	HelpText    string
	ChipStyle   lipgloss.Style
	MutedStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

// FooterHeight is the number of lines RenderFooter produces.
func FooterHeight(showPrompt bool) int {
	if showPrompt {
		return 4
	}
	return 3
}

// RenderFooter renders the selected artists, the prompt when one is open,
// the status line and the key help.
func RenderFooter(state FooterViewState) string {
	lines := make([]string, 0, 4)
	lines = append(lines, Truncate(renderChips(state), state.InnerW))
	if state.ShowPrompt {
		lines = append(lines, state.PromptLine)
	}
	lines = append(lines, state.StatusStyle.Render(Truncate(state.StatusText, state.InnerW)))
	lines = append(lines, state.HelpStyle.Render(Truncate(state.HelpText, state.InnerW)))

	return PlaceBox(state.InnerW, FooterHeight(state.ShowPrompt), lipgloss.Bottom, strings.Join(lines, "\n"), state.Bg)
}

func renderChips(state FooterViewState) string {
	if len(state.Artists) == 0 {
		return state.MutedStyle.Render("All listening · press / to compare artists")
	}
	chips := make([]string, 0, len(state.Artists))
	for _, name := range state.Artists {
		chips = append(chips, state.ChipStyle.Render(name))
	}
	return strings.Join(chips, " ")
}
