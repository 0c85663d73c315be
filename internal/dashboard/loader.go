// Package dashboard connects week navigation to chart payloads.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/cache"
	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// RepositoryError reports that listening data could not be fetched.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// Cache holds fetched events. Nil disables caching.
	Cache *cache.Events
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
	// Location decides which calendar date is today. Defaults to UTC.
	Location *time.Location
	Logger   zerolog.Logger
}

// Loader fetches events through the cache and composes chart payloads.
type Loader struct {
	repo       listening.Repository
	cache      *cache.Events
	compositor *chart.Compositor
	now        func() time.Time
	loc        *time.Location
	logger     zerolog.Logger
}

// NewLoader creates a loader reading from repo.
func NewLoader(repo listening.Repository, opts LoaderOptions) *Loader {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	l := &Loader{
		repo:   repo,
		cache:  opts.Cache,
		now:    opts.Now,
		loc:    opts.Location,
		logger: opts.Logger.With().Str("component", "loader").Logger(),
	}
	l.compositor = chart.NewCompositor(l.Today)
	return l
}

// Today returns today's calendar date.
func (l *Loader) Today() time.Time {
	return dateutil.Today(l.now(), l.loc)
}

// ThisWeek returns the week containing today.
func (l *Loader) ThisWeek() dateutil.WeekRange {
	return dateutil.WeekRangeOf(l.Today())
}

// Load builds the payload for rng. Without artists it charts the total;
// otherwise one series per artist, in order. Repository failures are
// returned as *RepositoryError.
func (l *Loader) Load(ctx context.Context, userID string, rng dateutil.WeekRange, artists []listening.Artist) (*chart.Payload, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	if len(artists) == 0 {
		events, err := l.events(ctx, userID, rng, "")
		if err != nil {
			return nil, err
		}
		return l.compositor.Compose(rng, events, nil)
	}

	requests := make([]chart.SeriesRequest, 0, len(artists))
	for _, a := range artists {
		events, err := l.events(ctx, userID, rng, a.ID)
		if err != nil {
			return nil, err
		}
		requests = append(requests, chart.SeriesRequest{Label: a.Name, ArtistID: a.ID, Events: events})
	}
	return l.compositor.Compose(rng, nil, requests)
}

func (l *Loader) events(ctx context.Context, userID string, rng dateutil.WeekRange, artistID string) ([]listening.Event, error) {
	key := cache.NewKey(userID, rng, artistID)
	if l.cache != nil {
		if events, ok := l.cache.Get(key); ok {
			return events, nil
		}
	}

	events, err := l.repo.FetchEvents(ctx, userID, rng, artistID)
	if err != nil {
		return nil, &RepositoryError{Op: "fetching events " + key.String(), Err: err}
	}

	if l.cache != nil {
		l.cache.Put(key, events)
	}
	l.logger.Debug().Str("key", key.String()).Int("events", len(events)).Msg("fetched events")
	return events, nil
}

// InvalidateThisWeek drops cached entries for the live week, which can
// still gain plays.
func (l *Loader) InvalidateThisWeek(userID string) int {
	if l.cache == nil {
		return 0
	}
	return l.cache.InvalidateRange(userID, l.ThisWeek())
}

// InvalidateUser drops every cached entry for the user.
func (l *Loader) InvalidateUser(userID string) int {
	if l.cache == nil {
		return 0
	}
	return l.cache.InvalidateUser(userID)
}

// Fallback converts a Load error into the payload a renderer should show:
// an unavailable payload for data outages and a zeroed chart otherwise.
func Fallback(rng dateutil.WeekRange, artists []listening.Artist, err error) *chart.Payload {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return chart.UnavailablePayload(rng)
	}

	labels := make([]string, 0, len(artists))
	for _, a := range artists {
		label := a.Name
		if label == "" {
			label = a.ID
		}
		labels = append(labels, label)
	}
	return chart.ZeroPayload(rng, labels...)
}

// LoadOrFallback is Load with errors converted by Fallback. The error is
// still returned so callers can log it.
func (l *Loader) LoadOrFallback(ctx context.Context, userID string, rng dateutil.WeekRange, artists []listening.Artist) (*chart.Payload, error) {
	payload, err := l.Load(ctx, userID, rng, artists)
	if err != nil {
		return Fallback(rng, artists, err), err
	}
	return payload, nil
}
