package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// Section headings inside Lines.
const (
	HeadingTopSongs   = "Top songs"
	HeadingTopArtists = "Top artists"
)

// Highlights holds a week's play counts and top lists.
type Highlights struct {
	Range         dateutil.WeekRange
	Days          [7]listening.DayStats
	TopTracks     []listening.Ranked
	TopArtists    []listening.Ranked
	UniqueArtists int
	// TodayIndex is today's weekday index, or -1 when the week is not the
	// current one.
	TodayIndex int
}

// BuildHighlights queries the top lists and daily counts for rng. A
// non-positive limit uses listening.DefaultTopLimit.
func BuildHighlights(ctx context.Context, r listening.Ranker, userID string, rng dateutil.WeekRange, today time.Time, limit int) (*Highlights, error) {
	if limit <= 0 {
		limit = listening.DefaultTopLimit
	}

	h := &Highlights{Range: rng, TodayIndex: -1}
	if rng.Contains(today) {
		h.TodayIndex = dateutil.WeekdayIndex(today)
	}

	var err error
	if h.Days, err = r.DailyStats(ctx, userID, rng); err != nil {
		return nil, fmt.Errorf("fetching daily stats: %w", err)
	}
	if h.TopTracks, err = r.TopTracks(ctx, userID, rng, limit); err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}
	if h.TopArtists, err = r.TopArtists(ctx, userID, rng, limit); err != nil {
		return nil, fmt.Errorf("fetching top artists: %w", err)
	}
	if h.UniqueArtists, err = r.UniqueArtists(ctx, userID, rng); err != nil {
		return nil, fmt.Errorf("counting artists: %w", err)
	}
	return h, nil
}

// Today returns today's counts. ok is false outside the current week.
func (h *Highlights) Today() (listening.DayStats, bool) {
	if h.TodayIndex < 0 {
		return listening.DayStats{}, false
	}
	return h.Days[h.TodayIndex], true
}

// TotalPlays sums plays over the week.
func (h *Highlights) TotalPlays() int {
	n := 0
	for _, d := range h.Days {
		n += d.Plays
	}
	return n
}

// TotalMinutes sums minutes over the week.
func (h *Highlights) TotalMinutes() float64 {
	total := 0.0
	for _, d := range h.Days {
		total += d.Minutes
	}
	return total
}

// AvgDailyMinutes averages minutes over the days elapsed: all seven for a
// past week, Monday through today for the current one.
func (h *Highlights) AvgDailyMinutes() float64 {
	days := 7
	if h.TodayIndex >= 0 {
		days = h.TodayIndex + 1
	}
	return h.TotalMinutes() / float64(days)
}

// Lines renders the highlights for the terminal.
func (h *Highlights) Lines() []string {
	var lines []string
	if today, ok := h.Today(); ok {
		lines = append(lines, fmt.Sprintf("Today: %s, %d %s",
			FormatMinutes(today.Minutes), today.Plays, plural(today.Plays, "song", "songs")))
	}

	plays := h.TotalPlays()
	if plays == 0 {
		return append(lines, "No plays this week")
	}
	lines = append(lines, fmt.Sprintf("Week: %d %s from %d %s, %s a day",
		plays, plural(plays, "song", "songs"),
		h.UniqueArtists, plural(h.UniqueArtists, "artist", "artists"),
		FormatMinutes(h.AvgDailyMinutes())))

	lines = append(lines, "", HeadingTopSongs)
	for i, t := range h.TopTracks {
		name := t.Name
		if t.ArtistName != "" {
			name += " - " + t.ArtistName
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%d %s)", i+1, name, t.Plays, plural(t.Plays, "play", "plays")))
	}

	lines = append(lines, "", HeadingTopArtists)
	for i, a := range h.TopArtists {
		lines = append(lines, fmt.Sprintf("%d. %s (%d %s)", i+1, a.Name, a.Plays, plural(a.Plays, "play", "plays")))
	}
	return lines
}
