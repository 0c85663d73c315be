// Package listening defines the listening-history domain types for tuneweek.
package listening

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyUserID      = errors.New("user id cannot be empty")
	ErrEmptyTrackID     = errors.New("track id cannot be empty")
	ErrMissingPlayedAt  = errors.New("played at timestamp is required")
	ErrNegativeDuration = errors.New("duration cannot be negative")
)

// AllArtists is the dimension key for the unfiltered total.
const AllArtists = "*"

// Event is one played track reduced to what the weekly chart needs.
type Event struct {
	Date       time.Time // calendar date, midnight UTC
	DurationMs int64
	ArtistID   string
	ArtistName string
}

// Minutes returns the event duration in minutes.
func (e Event) Minutes() float64 {
	return float64(e.DurationMs) / 60000
}

// Play is a stored listening-history row.
type Play struct {
	ID         int64
	UserID     string
	TrackID    string
	TrackName  string
	ArtistID   string
	ArtistName string
	AlbumName  string
	PlayedAt   time.Time
	DurationMs int64
	ImageURL   string
}

// Validate checks the fields the store relies on.
func (p *Play) Validate() error {
	switch {
	case strings.TrimSpace(p.UserID) == "":
		return ErrEmptyUserID
	case strings.TrimSpace(p.TrackID) == "":
		return ErrEmptyTrackID
	case p.PlayedAt.IsZero():
		return ErrMissingPlayedAt
	case p.DurationMs < 0:
		return ErrNegativeDuration
	}
	return nil
}

// Date returns the UTC calendar date the play happened on.
func (p *Play) Date() time.Time {
	return dateutil.DateIn(p.PlayedAt, time.UTC)
}

// Event projects the play into a chart event.
func (p *Play) Event() Event {
	return Event{
		Date:       p.Date(),
		DurationMs: p.DurationMs,
		ArtistID:   p.ArtistID,
		ArtistName: p.ArtistName,
	}
}

// User is a listener profile.
type User struct {
	ID            string
	DisplayName   string
	ProfilePicURL string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Artist identifies one chartable dimension.
type Artist struct {
	ID   string `json:"artistId"`
	Name string `json:"artistName"`
}

// Dimension returns the cache dimension key for an optional artist ID.
func Dimension(artistID string) string {
	if artistID == "" {
		return AllArtists
	}
	return artistID
}

// FilterEvents returns the events that fall inside rng, optionally limited to
// one artist. The input slice is not modified.
func FilterEvents(events []Event, rng dateutil.WeekRange, artistID string) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		if !rng.Contains(e.Date) {
			continue
		}
		if artistID != "" && e.ArtistID != artistID {
			continue
		}
		result = append(result, e)
	}
	return result
}
