// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/chat"
	"github.com/javiermolinar/tuneweek/internal/dashboard"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/llm"
	"github.com/javiermolinar/tuneweek/internal/summary"
)

// SuggestDelay is how long typing must pause before suggestions are fetched.
const SuggestDelay = 150 * time.Millisecond

// UpdateMsg carries a finished dashboard load.
type UpdateMsg struct {
	Update dashboard.Update
}

// SessionClosedMsg is sent when the session's update channel closes.
type SessionClosedMsg struct{}

// SuggestTickMsg fires after typing pauses in the artist search.
type SuggestTickMsg struct {
	Seq int
}

// SuggestionsMsg carries artist suggestions for Query.
type SuggestionsMsg struct {
	Query   string
	Artists []listening.Artist
	Err     error
}

// ChatReplyMsg carries the assistant's answer to Question.
type ChatReplyMsg struct {
	Question string
	Response *chat.Response
	Err      error
}

// ChatClearedMsg is sent after the conversation is forgotten.
type ChatClearedMsg struct {
	Err error
}

// InsightMsg carries a generated one-line insight for Range.
type InsightMsg struct {
	Range dateutil.WeekRange
	Text  string
	Err   error
}

// HighlightsMsg carries top lists and play counts for Range.
type HighlightsMsg struct {
	Range      dateutil.WeekRange
	Highlights *summary.Highlights
	Err        error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Suggester looks up artists for the search prompt.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]listening.Artist, error)
}

// StartSession positions the session and triggers the first load. The
// result arrives through WaitForUpdate.
func StartSession(ctx context.Context, s *dashboard.Session) tea.Cmd {
	return func() tea.Msg {
		s.Init(ctx)
		return nil
	}
}

// WaitForUpdate blocks until the next finished load.
func WaitForUpdate(updates <-chan dashboard.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return SessionClosedMsg{}
		}
		return UpdateMsg{Update: u}
	}
}

// ScheduleSuggest fires a SuggestTickMsg after SuggestDelay.
func ScheduleSuggest(seq int) tea.Cmd {
	return tea.Tick(SuggestDelay, func(time.Time) tea.Msg {
		return SuggestTickMsg{Seq: seq}
	})
}

// Suggest fetches artist suggestions for query.
func Suggest(ctx context.Context, s Suggester, query string) tea.Cmd {
	return func() tea.Msg {
		artists, err := s.Suggest(ctx, query)
		return SuggestionsMsg{Query: query, Artists: artists, Err: err}
	}
}

// Ask sends a question to the chat backend.
func Ask(ctx context.Context, backend chat.Backend, req chat.Request) tea.Cmd {
	return func() tea.Msg {
		resp, err := backend.Ask(ctx, req)
		return ChatReplyMsg{Question: req.Message, Response: resp, Err: err}
	}
}

// ClearChat forgets the user's conversation.
func ClearChat(ctx context.Context, backend chat.Backend, userID string) tea.Cmd {
	return func() tea.Msg {
		return ChatClearedMsg{Err: backend.Clear(ctx, userID)}
	}
}

// Insight asks the model for a one-line take on the displayed week.
func Insight(ctx context.Context, client llm.Client, p *chart.Payload) tea.Cmd {
	return func() tea.Msg {
		text, err := summary.Insight(ctx, client, summary.SummarizeWeek(p), p)
		return InsightMsg{Range: p.Range, Text: text, Err: err}
	}
}

// Highlights fetches the week's top songs, top artists and play counts.
func Highlights(ctx context.Context, r listening.Ranker, userID string, rng dateutil.WeekRange, today time.Time) tea.Cmd {
	return func() tea.Msg {
		h, err := summary.BuildHighlights(ctx, r, userID, rng, today, listening.DefaultTopLimit)
		return HighlightsMsg{Range: rng, Highlights: h, Err: err}
	}
}

// CopyToClipboard writes text with write and reports what was copied.
func CopyToClipboard(write func(string) error, text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := write(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying %s: %w", what, err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what + " to clipboard"}
	}
}
