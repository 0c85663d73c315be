package listening

import (
	"context"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
)

// DefaultTopLimit is the length of a top list when none is given.
const DefaultTopLimit = 5

// Ranked is an artist or track with its play count over a range.
type Ranked struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ArtistName string  `json:"artistName,omitempty"` // tracks only
	Plays      int     `json:"plays"`
	Minutes    float64 `json:"minutes"`
}

// DayStats is the number of plays and minutes on one calendar date.
type DayStats struct {
	Date    time.Time `json:"-"`
	Plays   int       `json:"plays"`
	Minutes float64   `json:"minutes"`
}

// Ranker answers play-count questions over a week.
type Ranker interface {
	// TopArtists returns up to limit artists by play count, then minutes.
	TopArtists(ctx context.Context, userID string, rng dateutil.WeekRange, limit int) ([]Ranked, error)

	// TopTracks returns up to limit tracks by play count, then minutes.
	TopTracks(ctx context.Context, userID string, rng dateutil.WeekRange, limit int) ([]Ranked, error)

	// DailyStats returns one entry per day of rng, Monday first. Days
	// without plays are zero.
	DailyStats(ctx context.Context, userID string, rng dateutil.WeekRange) ([7]DayStats, error)

	// UniqueArtists counts the distinct artists played inside rng.
	UniqueArtists(ctx context.Context, userID string, rng dateutil.WeekRange) (int, error)
}
