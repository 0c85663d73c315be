package listening

import (
	"context"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
)

// Repository is the read side consumed by the weekly chart pipeline.
type Repository interface {
	// FetchEvents returns all events dated inside rng. A non-empty artistID
	// limits the result to that artist. No history yields an empty slice.
	FetchEvents(ctx context.Context, userID string, rng dateutil.WeekRange, artistID string) ([]Event, error)

	// FetchEarliestDate returns the date of the user's first play, or nil
	// when the user has no history.
	FetchEarliestDate(ctx context.Context, userID string) (*time.Time, error)

	// FetchArtistSuggestions returns up to maxResults artists whose name
	// contains query, ignoring case and punctuation, sorted alphabetically.
	FetchArtistSuggestions(ctx context.Context, userID, query string, maxResults int) ([]Artist, error)
}

// Store is the full persistence interface used by import, chat, and the CLI.
type Store interface {
	Repository
	Ranker

	// UpsertUser inserts or updates a user profile.
	UpsertUser(ctx context.Context, u *User) error

	// GetUser retrieves a user by ID. Returns nil, nil when not found.
	GetUser(ctx context.Context, id string) (*User, error)

	// ListUsers returns all known users ordered by ID.
	ListUsers(ctx context.Context) ([]*User, error)

	// SavePlays stores plays, skipping duplicates of (user, track, played at).
	// Returns the number of rows inserted.
	SavePlays(ctx context.Context, plays []*Play) (int, error)

	// RecentPlays returns the user's latest plays, newest first.
	RecentPlays(ctx context.Context, userID string, limit, offset int) ([]*Play, error)

	// Close releases any resources held by the store.
	Close() error
}
