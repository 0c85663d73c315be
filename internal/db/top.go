package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// TopArtists returns the user's most played artists inside rng.
func (s *SQLite) TopArtists(ctx context.Context, userID string, rng dateutil.WeekRange, limit int) ([]listening.Ranked, error) {
	return s.top(ctx, `
		SELECT artist_id, MAX(artist_name), '', COUNT(*), SUM(duration_ms)
		FROM listening_history
		WHERE user_id = ? AND play_date >= ? AND play_date <= ? AND artist_id != ''
		GROUP BY artist_id
		ORDER BY COUNT(*) DESC, SUM(duration_ms) DESC, MAX(artist_name)
		LIMIT ?
	`, userID, rng, limit)
}

// TopTracks returns the user's most played tracks inside rng.
func (s *SQLite) TopTracks(ctx context.Context, userID string, rng dateutil.WeekRange, limit int) ([]listening.Ranked, error) {
	return s.top(ctx, `
		SELECT track_id, MAX(track_name), MAX(artist_name), COUNT(*), SUM(duration_ms)
		FROM listening_history
		WHERE user_id = ? AND play_date >= ? AND play_date <= ?
		GROUP BY track_id
		ORDER BY COUNT(*) DESC, SUM(duration_ms) DESC, MAX(track_name)
		LIMIT ?
	`, userID, rng, limit)
}

func (s *SQLite) top(ctx context.Context, query, userID string, rng dateutil.WeekRange, limit int) ([]listening.Ranked, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = listening.DefaultTopLimit
	}

	start, end := rng.Format()
	rows, err := s.db.QueryContext(ctx, query, userID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ranked := []listening.Ranked{}
	for rows.Next() {
		var (
			r          listening.Ranked
			durationMs int64
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.ArtistName, &r.Plays, &durationMs); err != nil {
			return nil, fmt.Errorf("scanning top entry: %w", err)
		}
		r.Minutes = float64(durationMs) / 60000
		ranked = append(ranked, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top list: %w", err)
	}

	return ranked, nil
}

// DailyStats returns plays and minutes for each day of rng.
func (s *SQLite) DailyStats(ctx context.Context, userID string, rng dateutil.WeekRange) ([7]listening.DayStats, error) {
	var days [7]listening.DayStats
	if err := rng.Validate(); err != nil {
		return days, err
	}
	for i, d := range rng.Days() {
		days[i].Date = d
	}

	start, end := rng.Format()
	rows, err := s.db.QueryContext(ctx, `
		SELECT play_date, COUNT(*), SUM(duration_ms)
		FROM listening_history
		WHERE user_id = ? AND play_date >= ? AND play_date <= ?
		GROUP BY play_date
	`, userID, start, end)
	if err != nil {
		return days, fmt.Errorf("querying daily stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			playDate   string
			plays      int
			durationMs int64
		)
		if err := rows.Scan(&playDate, &plays, &durationMs); err != nil {
			return days, fmt.Errorf("scanning daily stats: %w", err)
		}
		d, err := parseDate(playDate)
		if err != nil {
			return days, fmt.Errorf("parsing play date: %w", err)
		}
		i := dateutil.WeekdayIndex(d)
		days[i].Plays = plays
		days[i].Minutes = float64(durationMs) / 60000
	}
	if err := rows.Err(); err != nil {
		return days, fmt.Errorf("iterating daily stats: %w", err)
	}

	return days, nil
}

// UniqueArtists counts the distinct artists the user played inside rng.
func (s *SQLite) UniqueArtists(ctx context.Context, userID string, rng dateutil.WeekRange) (int, error) {
	if err := rng.Validate(); err != nil {
		return 0, err
	}

	start, end := rng.Format()
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT artist_id)
		FROM listening_history
		WHERE user_id = ? AND play_date >= ? AND play_date <= ? AND artist_id != ''
	`, userID, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting artists: %w", err)
	}
	return n, nil
}

// LookupArtist returns the artist stored under artistID for the user, or
// nil when the user never played it.
func (s *SQLite) LookupArtist(ctx context.Context, userID, artistID string) (*listening.Artist, error) {
	a := listening.Artist{ID: artistID}
	err := s.db.QueryRowContext(ctx, `
		SELECT artist_name
		FROM listening_history
		WHERE user_id = ? AND artist_id = ?
		ORDER BY played_at DESC
		LIMIT 1
	`, userID, artistID).Scan(&a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up artist: %w", err)
	}
	return &a, nil
}
