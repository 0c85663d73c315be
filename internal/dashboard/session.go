package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/navigator"
)

// DefaultSuggestions is the number of artist suggestions returned.
const DefaultSuggestions = 10

// Update is one finished load. Payload is never nil.
type Update struct {
	Token   uint64
	Range   dateutil.WeekRange
	Payload *chart.Payload
	Err     error
}

// SessionOptions configures a Session.
type SessionOptions struct {
	UserID string
	Repo   listening.Repository
	Loader *Loader
	// Debounce is the navigation quiet window. Defaults to navigator.DefaultDebounce.
	Debounce time.Duration
	// AfterFunc schedules debounced notifications. Defaults to time.AfterFunc.
	AfterFunc      navigator.AfterFunc
	MaxSuggestions int
	Logger         zerolog.Logger
}

// Session is one user's dashboard: the displayed week, the selected
// artists, and the load in flight. Only the latest load publishes.
type Session struct {
	userID         string
	repo           listening.Repository
	loader         *Loader
	nav            *navigator.Navigator
	maxSuggestions int
	logger         zerolog.Logger
	updates        chan Update
	wg             sync.WaitGroup

	mu      sync.Mutex
	base    context.Context
	artists []listening.Artist
	token   uint64
	cancel  context.CancelFunc
	closed  bool
}

// NewSession creates a session positioned on the current week. Call Init
// to load the first chart.
func NewSession(opts SessionOptions) *Session {
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = DefaultSuggestions
	}
	s := &Session{
		userID:         opts.UserID,
		repo:           opts.Repo,
		loader:         opts.Loader,
		maxSuggestions: opts.MaxSuggestions,
		logger:         opts.Logger.With().Str("component", "session").Str("user", opts.UserID).Logger(),
		updates:        make(chan Update, 1),
		base:           context.Background(),
	}
	s.nav = navigator.New(navigator.Options{
		Now:       opts.Loader.now,
		Location:  opts.Loader.loc,
		Debounce:  opts.Debounce,
		AfterFunc: opts.AfterFunc,
		OnChange:  s.load,
	})
	return s
}

// Init bounds navigation by the user's earliest play and starts the first
// load. A failure to read the earliest date leaves navigation unbounded.
func (s *Session) Init(ctx context.Context) {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	earliest, err := s.repo.FetchEarliestDate(ctx, s.userID)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("fetching earliest play")
	case earliest != nil:
		s.nav.SetEarliest(*earliest)
	}

	s.load(s.nav.Current())
}

// Updates delivers finished loads. It is closed by Close.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// IsCurrent reports whether token belongs to the latest load.
func (s *Session) IsCurrent(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.token
}

// Navigator exposes the week state for rendering.
func (s *Session) Navigator() *navigator.Navigator {
	return s.nav
}

// Previous moves one week back.
func (s *Session) Previous() bool { return s.nav.Previous() }

// Next moves one week forward.
func (s *Session) Next() bool { return s.nav.Next() }

// Today jumps to the current week.
func (s *Session) Today() bool { return s.nav.ResetToToday() }

// Refresh reloads the displayed week immediately.
func (s *Session) Refresh() {
	s.load(s.nav.Current())
}

// Artists returns the selected artists in series order.
func (s *Session) Artists() []listening.Artist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]listening.Artist(nil), s.artists...)
}

// AddArtist appends a to the selection and reloads. Artists already
// selected are ignored.
func (s *Session) AddArtist(a listening.Artist) bool {
	a.ID = strings.TrimSpace(a.ID)
	if a.ID == "" {
		return false
	}

	s.mu.Lock()
	for _, existing := range s.artists {
		if existing.ID == a.ID {
			s.mu.Unlock()
			return false
		}
	}
	s.artists = append(s.artists, a)
	s.mu.Unlock()

	s.Refresh()
	return true
}

// RemoveArtist drops the artist at index and reloads.
func (s *Session) RemoveArtist(index int) bool {
	s.mu.Lock()
	if index < 0 || index >= len(s.artists) {
		s.mu.Unlock()
		return false
	}
	s.artists = append(s.artists[:index:index], s.artists[index+1:]...)
	s.mu.Unlock()

	s.Refresh()
	return true
}

// ClearArtists returns to the total chart.
func (s *Session) ClearArtists() bool {
	s.mu.Lock()
	if len(s.artists) == 0 {
		s.mu.Unlock()
		return false
	}
	s.artists = nil
	s.mu.Unlock()

	s.Refresh()
	return true
}

// Suggest returns artists matching query.
func (s *Session) Suggest(ctx context.Context, query string) ([]listening.Artist, error) {
	artists, err := s.repo.FetchArtistSuggestions(ctx, s.userID, query, s.maxSuggestions)
	if err != nil {
		return nil, &RepositoryError{Op: "fetching artist suggestions", Err: err}
	}
	return artists, nil
}

// Close stops navigation, cancels the load in flight and closes Updates.
func (s *Session) Close() {
	s.nav.Stop()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
	close(s.updates)
}

func (s *Session) load(rng dateutil.WeekRange) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.token++
	token := s.token
	artists := append([]listening.Artist(nil), s.artists...)
	s.wg.Add(1)
	s.mu.Unlock()

	if n := s.loader.InvalidateThisWeek(s.userID); n > 0 {
		s.logger.Debug().Int("entries", n).Msg("invalidated live week")
	}

	go func() {
		defer s.wg.Done()
		defer cancel()

		payload, err := s.loader.LoadOrFallback(ctx, s.userID, rng, artists)
		s.publish(ctx, Update{Token: token, Range: rng, Payload: payload, Err: err})
	}()
}

func (s *Session) publish(ctx context.Context, u Update) {
	if ctx.Err() != nil || !s.IsCurrent(u.Token) {
		s.logger.Debug().Uint64("token", u.Token).Str("range", u.Range.String()).Msg("discarding stale load")
		return
	}

	if u.Err != nil && !errors.Is(u.Err, context.Canceled) {
		s.logger.Warn().Err(u.Err).Str("range", u.Range.String()).Msg("load failed")
	}

	select {
	case s.updates <- u:
	case <-ctx.Done():
		s.logger.Debug().Uint64("token", u.Token).Msg("discarding superseded load")
	}
}
