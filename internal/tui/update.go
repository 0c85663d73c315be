package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tuneweek/internal/dashboard"
	"github.com/javiermolinar/tuneweek/internal/tui/commands"
)

const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputW := max(10, m.width-20)
		m.search.Width = inputW
		m.chatInput.Width = inputW
		return m, nil

	case commands.UpdateMsg:
		return m.applyUpdate(msg.Update)

	case commands.SessionClosedMsg:
		return m, nil

	case commands.SuggestTickMsg:
		if m.mode != ModeSearch || msg.Seq != m.suggestSeq {
			return m, nil
		}
		query := strings.TrimSpace(m.search.Value())
		if query == "" {
			m.suggestions = nil
			m.selected = 0
			return m, nil
		}
		return m, commands.Suggest(m.ctx, m.session, query)

	case commands.SuggestionsMsg:
		if msg.Query != strings.TrimSpace(m.search.Value()) {
			return m, nil
		}
		if msg.Err != nil {
			return m.setError(fmt.Errorf("searching artists: %w", msg.Err))
		}
		m.suggestions = msg.Artists
		m.selected = 0
		return m, nil

	case commands.ChatReplyMsg:
		m.chatPending = false
		if msg.Err != nil {
			m.chatLog = append(m.chatLog, chatLine{text: "Sorry, I could not answer that: " + msg.Err.Error()})
			m.logger.Warn().Err(msg.Err).Msg("chat failed")
			return m, nil
		}
		m.lastAnswer = msg.Response.Response
		m.chatLog = append(m.chatLog, chatLine{text: msg.Response.Response})
		return m, nil

	case commands.ChatClearedMsg:
		if msg.Err != nil {
			return m.setError(msg.Err)
		}
		m.chatLog = nil
		m.lastAnswer = ""
		return m.setStatus("Conversation cleared")

	case commands.InsightMsg:
		if msg.Err != nil {
			return m.setError(msg.Err)
		}
		m.insight = msg.Text
		m.insightRange = msg.Range
		if msg.Text == "" {
			return m.setStatus("No listening to comment on yet")
		}
		m.panel = PanelSummary
		if m.highlights == nil {
			return m, m.fetchHighlights()
		}
		return m, nil

	case commands.HighlightsMsg:
		if m.payload == nil || !msg.Range.Equal(m.payload.Range) {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn().Err(msg.Err).Str("range", msg.Range.String()).Msg("highlights failed")
			return m, nil
		}
		m.highlights = msg.Highlights
		return m, nil

	case commands.ErrMsg:
		return m.setError(msg.Err)

	case commands.StatusMsgCmd:
		return m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Keep the focused input's cursor blinking.
	var cmd tea.Cmd
	switch m.mode {
	case ModeSearch:
		m.search, cmd = m.search.Update(msg)
	case ModeChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	}
	return m, cmd
}

// applyUpdate takes a finished load. Loads superseded by a newer request
// are ignored; the session normally drops them before they get here.
func (m Model) applyUpdate(u dashboard.Update) (tea.Model, tea.Cmd) {
	wait := commands.WaitForUpdate(m.session.Updates())
	if !m.session.IsCurrent(u.Token) {
		m.logger.Debug().Uint64("token", u.Token).Msg("dropping stale update")
		return m, wait
	}

	m.payload = u.Payload
	m.loadErr = u.Err
	if !m.insightRange.Equal(u.Range) {
		m.insight = ""
	}
	if m.highlights != nil && !m.highlights.Range.Equal(u.Range) {
		m.highlights = nil
	}
	if u.Err == nil {
		if m.panel == PanelSummary {
			return m, tea.Batch(wait, m.fetchHighlights())
		}
		return m, wait
	}

	m.logger.Warn().Err(u.Err).Str("range", u.Range.String()).Msg("week load failed")
	var repoErr *dashboard.RepositoryError
	if errors.As(u.Err, &repoErr) {
		updated, cmd := m.setError(errors.New("listening data unavailable"))
		return updated, tea.Batch(wait, cmd)
	}
	updated, cmd := m.setError(u.Err)
	return updated, tea.Batch(wait, cmd)
}

// fetchHighlights loads top lists for the displayed week, or returns nil
// when there is nothing to rank.
func (m Model) fetchHighlights() tea.Cmd {
	if m.ranker == nil || m.payload == nil || m.payload.Unavailable {
		return nil
	}
	return commands.Highlights(m.ctx, m.ranker, m.userID, m.payload.Range, m.session.Navigator().Today())
}

func (m Model) setStatus(msg string) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = time.Now().Add(statusDuration)
	return m, tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

func (m Model) setError(err error) (tea.Model, tea.Cmd) {
	m.statusMsg = "Error: " + err.Error()
	m.statusErr = true
	m.statusTime = time.Now().Add(errorDuration)
	return m, tea.Tick(errorDuration, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}
