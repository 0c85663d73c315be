package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/chat"
	"github.com/javiermolinar/tuneweek/internal/config"
	"github.com/javiermolinar/tuneweek/internal/dashboard"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/llm"
	"github.com/javiermolinar/tuneweek/internal/summary"
	"github.com/javiermolinar/tuneweek/internal/tui/commands"
	"github.com/javiermolinar/tuneweek/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch      // Typing an artist name
	ModeChat        // Typing a question for the assistant
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeChat:
		return "chat"
	default:
		return "normal"
	}
}

// Panel is the section shown below the chart.
type Panel int

const (
	PanelNone Panel = iota
	PanelSummary
	PanelChat
)

type chatLine struct {
	fromUser bool
	text     string
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	ctx       context.Context
	session   *dashboard.Session
	userID    string
	chat      chat.Backend
	insights  llm.Client
	ranker    listening.Ranker
	clipboard func(string) error
	logger    zerolog.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// State
	mode    Mode
	panel   Panel
	payload *chart.Payload
	loadErr error

	// Artist search
	search      textinput.Model
	suggestSeq  int
	suggestions []listening.Artist
	selected    int

	// Chat
	chatInput   textinput.Model
	chatLog     []chatLine
	chatPending bool
	lastAnswer  string

	// Insight for insightRange, shown in the summary panel
	insight      string
	insightRange dateutil.WeekRange

	// Top lists for the displayed week, shown in the summary panel
	highlights *summary.Highlights

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusErr  bool      // Render statusMsg as an error
	statusTime time.Time // When to clear message
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithChat enables the chat panel.
func WithChat(backend chat.Backend) ModelOption {
	return func(m *Model) {
		m.chat = backend
	}
}

// WithInsights enables model-generated week insights.
func WithInsights(client llm.Client) ModelOption {
	return func(m *Model) {
		m.insights = client
	}
}

// WithHighlights adds top songs and artists to the summary panel.
func WithHighlights(r listening.Ranker) ModelOption {
	return func(m *Model) {
		m.ranker = r
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) ModelOption {
	return func(m *Model) {
		m.clipboard = write
	}
}

// WithLogger sets the logger used for key and load tracing.
func WithLogger(logger zerolog.Logger) ModelOption {
	return func(m *Model) {
		m.logger = logger.With().Str("component", "tui").Logger()
	}
}

// WithContext bounds every command the model starts.
func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// New creates a new TUI model driving session.
func New(session *dashboard.Session, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	search := textinput.New()
	search.Placeholder = "artist name"
	search.CharLimit = 100
	search.Prompt = ""
	search.TextStyle = styles.PromptTextStyle
	search.PlaceholderStyle = styles.PlaceholderStyle

	chatInput := textinput.New()
	chatInput.Placeholder = "ask about your listening, /clear, /copy"
	chatInput.CharLimit = 500
	chatInput.Prompt = ""
	chatInput.TextStyle = styles.PromptTextStyle
	chatInput.PlaceholderStyle = styles.PlaceholderStyle

	m := &Model{
		ctx:       context.Background(),
		session:   session,
		userID:    cfg.User.ID,
		clipboard: clipboard.WriteAll,
		logger:    zerolog.Nop(),
		theme:     t,
		styles:    styles,
		mode:      ModeNormal,
		search:    search,
		chatInput: chatInput,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Init starts the session and listens for its loads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.StartSession(m.ctx, m.session),
		commands.WaitForUpdate(m.session.Updates()),
	)
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, session *dashboard.Session, cfg *config.Config, opts ...ModelOption) error {
	opts = append([]ModelOption{WithContext(ctx)}, opts...)
	model := New(session, cfg, opts...)
	p := tea.NewProgram(*model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
