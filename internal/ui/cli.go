package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/tuneweek/internal/cache"
	"github.com/javiermolinar/tuneweek/internal/chat"
	"github.com/javiermolinar/tuneweek/internal/config"
	"github.com/javiermolinar/tuneweek/internal/dashboard"
	"github.com/javiermolinar/tuneweek/internal/db"
	"github.com/javiermolinar/tuneweek/internal/llm"
	"github.com/javiermolinar/tuneweek/internal/logging"
	"github.com/javiermolinar/tuneweek/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	root   *cobra.Command
	store  *db.SQLite

	logger    zerolog.Logger
	logCloser io.Closer

	userFlag string // Overrides config user id
	debug    bool   // Enable debug logging
	logFile  string // Overrides config log file
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, logger: zerolog.Nop()}

	a.root = &cobra.Command{
		Use:   "tuneweek",
		Short: "A weekly view of your music listening",
		Long: `Tuneweek charts how many minutes you listened to music on each day
of a Monday to Sunday week.

Import your streaming history, then browse weeks, compare artists
against each other, and ask an assistant about your listening.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDashboard(cmd.Context())
		},
	}

	// Add global flags
	a.root.PersistentFlags().StringVarP(&a.userFlag, "user", "u", "", "User id to show (default from config)")
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write logs to this file (default from config)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.artistsCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.historyCmd())
	a.root.AddCommand(a.topCmd())
	a.root.AddCommand(a.usersCmd())
	a.root.AddCommand(a.chatCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tuneweek %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the CLI application, cancelling commands with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close releases the database and the log file.
func (a *App) Close() error {
	var errs []string
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		a.store = nil
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		a.logCloser = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing: %s", strings.Join(errs, "; "))
	}
	return nil
}

// setup validates the config and starts logging. It runs before every
// command.
func (a *App) setup() error {
	if a.userFlag != "" {
		a.config.User.ID = a.userFlag
	}
	if a.logFile != "" {
		a.config.Log.File = a.logFile
	}
	if a.debug {
		a.config.Log.Level = "debug"
	}
	if err := a.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if a.logCloser != nil {
		return nil
	}

	logger, closer, err := logging.New(a.config.Log.Level, a.config.Log.File)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logCloser = closer
	return nil
}

// ensureStore opens the database on first use.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = store
	a.logger.Debug().Str("path", a.config.Storage.DBPath).Msg("database opened")
	return nil
}

func (a *App) newLoader() (*dashboard.Loader, error) {
	events, err := cache.New(a.config.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return dashboard.NewLoader(a.store, dashboard.LoaderOptions{
		Cache:    events,
		Location: a.config.Location(),
		Logger:   a.logger,
	}), nil
}

// llmClient returns the configured model client, or nil when no provider
// is set.
func (a *App) llmClient() (llm.Client, error) {
	if strings.TrimSpace(a.config.LLM.Provider) == "" {
		return nil, nil
	}
	client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	return client, nil
}

// chatBackend returns an assistant that remembers conversations in the
// database, or nil when no provider is set.
func (a *App) chatBackend() (chat.Backend, llm.Client, error) {
	client, err := a.llmClient()
	if err != nil || client == nil {
		return nil, nil, err
	}
	return chat.NewAssistant(client, a.store, a.store, a.logger), client, nil
}

func (a *App) runDashboard(ctx context.Context) error {
	if err := a.redirectLogs(); err != nil {
		return err
	}
	if err := a.ensureStore(); err != nil {
		return err
	}
	loader, err := a.newLoader()
	if err != nil {
		return err
	}

	session := dashboard.NewSession(dashboard.SessionOptions{
		UserID:   a.config.User.ID,
		Repo:     a.store,
		Loader:   loader,
		Debounce: a.config.Debounce(),
		Logger:   a.logger,
	})
	defer session.Close()

	opts := []tui.ModelOption{tui.WithLogger(a.logger), tui.WithHighlights(a.store)}
	backend, client, err := a.chatBackend()
	if err != nil {
		// The chart works without a model; only chat and insights need one.
		a.logger.Warn().Err(err).Msg("chat disabled")
	}
	if backend != nil {
		opts = append(opts, tui.WithChat(backend), tui.WithInsights(client))
	}

	return tui.Run(ctx, session, a.config, opts...)
}

// redirectLogs moves stderr logging out of the way of the full-screen
// dashboard: to a temp file with --debug, nowhere otherwise.
func (a *App) redirectLogs() error {
	if a.config.Log.File != "" {
		return nil
	}
	if !a.debug {
		a.logger = zerolog.Nop()
		return nil
	}

	path := filepath.Join(os.TempDir(), "tuneweek-debug.log")
	logger, closer, err := logging.New("debug", path)
	if err != nil {
		return err
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
	a.logger = logger
	a.logCloser = closer
	fmt.Fprintf(os.Stderr, "Debug logging to %s\n", path)
	return nil
}
