package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tuneweek/internal/chat"
	"github.com/javiermolinar/tuneweek/internal/summary"
	"github.com/javiermolinar/tuneweek/internal/tui/commands"
	"github.com/javiermolinar/tuneweek/internal/tui/input"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug().Str("key", msg.String()).Stringer("mode", m.mode).Msg("key press")

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeChat:
		return m.handleChatKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Week navigation
	case "h", "left":
		if !m.session.Previous() {
			return m.setStatus("No earlier listening history")
		}
	case "l", "right":
		if !m.session.Next() {
			return m.setStatus("Already showing this week")
		}
	case "t":
		if !m.session.Today() {
			return m.setStatus("Already showing this week")
		}
	case "r":
		m.session.Refresh()
		return m.setStatus("Refreshing")

	// Artist selection
	case "/", "a":
		m.mode = ModeSearch
		m.search.Reset()
		m.suggestions = nil
		m.selected = 0
		return m, m.search.Focus()
	case "d", "backspace":
		artists := m.session.Artists()
		if len(artists) == 0 || !m.session.RemoveArtist(len(artists)-1) {
			return m.setStatus("No artist to remove")
		}
		return m.setStatus("Removed " + artistLabel(artists[len(artists)-1]))
	case "x":
		if !m.session.ClearArtists() {
			return m.setStatus("No artists selected")
		}
		return m.setStatus("Showing all listening")

	// Panels
	case "s":
		if m.panel == PanelSummary {
			m.panel = PanelNone
			return m, nil
		}
		m.panel = PanelSummary
		if m.highlights == nil {
			return m, m.fetchHighlights()
		}
	case "c":
		if m.chat == nil {
			return m.setStatus("Chat needs an LLM provider in the config")
		}
		m.mode = ModeChat
		m.panel = PanelChat
		return m, m.chatInput.Focus()
	case "esc":
		m.panel = PanelNone

	// Summary actions
	case "y":
		if m.payload == nil {
			return m.setStatus("Nothing to copy yet")
		}
		return m, commands.CopyToClipboard(m.clipboard, m.weekSummary().Text(), "week summary")
	case "i":
		if m.insights == nil {
			return m.setStatus("Insights need an LLM provider in the config")
		}
		if m.payload == nil || m.payload.Unavailable {
			return m.setStatus("Nothing to comment on yet")
		}
		updated, cmd := m.setStatus("Asking for an insight...")
		return updated, tea.Batch(cmd, commands.Insight(m.ctx, m.insights, m.payload))
	}

	return m, nil
}

// handleSearchKeys handles keys while typing an artist name.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveSearch()
		return m, nil
	case "enter":
		if len(m.suggestions) == 0 {
			return m.setStatus("No matching artist")
		}
		artist := m.suggestions[m.selected]
		m.leaveSearch()
		if !m.session.AddArtist(artist) {
			return m.setStatus(artistLabel(artist) + " is already on the chart")
		}
		return m.setStatus("Added " + artistLabel(artist))
	case "up", "ctrl+p", "shift+tab":
		if n := len(m.suggestions); n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}
		return m, nil
	case "down", "ctrl+n", "tab":
		if n := len(m.suggestions); n > 0 {
			m.selected = (m.selected + 1) % n
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.suggestSeq++
	return m, tea.Batch(cmd, commands.ScheduleSuggest(m.suggestSeq))
}

func (m *Model) leaveSearch() {
	m.mode = ModeNormal
	m.search.Blur()
	m.search.Reset()
	m.suggestions = nil
	m.selected = 0
}

// handleChatKeys handles keys while typing a question.
func (m Model) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.chatInput.Blur()
		return m, nil
	case "tab":
		if completed, ok := input.PromptAutocomplete(m.chatInput.Value(), input.ChatCommands); ok {
			m.chatInput.SetValue(completed)
			m.chatInput.CursorEnd()
		}
		return m, nil
	case "enter":
		return m.submitChat()
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) submitChat() (tea.Model, tea.Cmd) {
	command, question := input.ParseChat(m.chatInput.Value(), input.ChatCommands)
	switch command {
	case "/clear":
		m.chatInput.Reset()
		return m, commands.ClearChat(m.ctx, m.chat, m.userID)
	case "/copy":
		m.chatInput.Reset()
		if m.lastAnswer == "" {
			return m.setStatus("No answer to copy yet")
		}
		return m, commands.CopyToClipboard(m.clipboard, m.lastAnswer, "answer")
	}

	if question == "" {
		return m, nil
	}
	if m.chatPending {
		return m.setStatus("Still waiting for the previous answer")
	}

	m.chatInput.Reset()
	m.chatPending = true
	m.chatLog = append(m.chatLog, chatLine{fromUser: true, text: question})
	return m, commands.Ask(m.ctx, m.chat, chat.Request{
		UserID:      m.userID,
		Message:     question,
		UserContext: m.weekContext(),
	})
}

// weekSummary summarizes the displayed chart, including the insight when
// it belongs to the same week.
func (m Model) weekSummary() *summary.WeekSummary {
	s := summary.SummarizeWeek(m.payload)
	if m.insightRange.Equal(m.payload.Range) {
		s.Insight = m.insight
	}
	return s
}

// weekContext describes the displayed week to the assistant.
func (m Model) weekContext() string {
	if m.payload == nil || m.payload.Unavailable {
		return ""
	}
	return "The dashboard is showing this week of listening (minutes per day):\n" +
		strings.TrimSpace(summary.FormatWeekData(m.payload))
}
