package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// DefaultRecentLimit is used when RecentPlays is called without a limit.
const DefaultRecentLimit = 20

// FetchEvents returns the user's events dated inside rng, oldest first.
func (s *SQLite) FetchEvents(ctx context.Context, userID string, rng dateutil.WeekRange, artistID string) ([]listening.Event, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	start, end := rng.Format()
	query := `
		SELECT play_date, duration_ms, artist_id, artist_name
		FROM listening_history
		WHERE user_id = ? AND play_date >= ? AND play_date <= ?
	`
	args := []any{userID, start, end}
	if artistID != "" {
		query += ` AND artist_id = ?`
		args = append(args, artistID)
	}
	query += ` ORDER BY played_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying listening history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := []listening.Event{}
	for rows.Next() {
		var (
			e        listening.Event
			playDate string
		)
		if err := rows.Scan(&playDate, &e.DurationMs, &e.ArtistID, &e.ArtistName); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Date, err = parseDate(playDate)
		if err != nil {
			return nil, fmt.Errorf("parsing play date: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// FetchEarliestDate returns the date of the user's first play, or nil.
func (s *SQLite) FetchEarliestDate(ctx context.Context, userID string) (*time.Time, error) {
	var earliest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT MIN(play_date) FROM listening_history WHERE user_id = ?`, userID,
	).Scan(&earliest)
	if err != nil {
		return nil, fmt.Errorf("querying earliest play: %w", err)
	}
	if !earliest.Valid || earliest.String == "" {
		return nil, nil
	}

	d, err := parseDate(earliest.String)
	if err != nil {
		return nil, fmt.Errorf("parsing earliest play: %w", err)
	}
	return &d, nil
}

// FetchArtistSuggestions matches the user's artists against query.
func (s *SQLite) FetchArtistSuggestions(ctx context.Context, userID, query string, maxResults int) ([]listening.Artist, error) {
	if listening.NormalizeName(query) == "" {
		return []listening.Artist{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT artist_id, artist_name
		FROM listening_history
		WHERE user_id = ? AND artist_id != ''
		ORDER BY artist_name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying artists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var artists []listening.Artist
	for rows.Next() {
		var a listening.Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artists: %w", err)
	}

	return listening.MatchArtists(artists, query, maxResults), nil
}

// SavePlays inserts plays in one transaction. Plays already stored for the
// same user, track and timestamp are skipped. Users referenced by the plays
// are created when missing.
func (s *SQLite) SavePlays(ctx context.Context, plays []*listening.Play) (int, error) {
	if len(plays) == 0 {
		return 0, nil
	}
	for i, p := range plays {
		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("play %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := formatTimestamp(s.now())
	seen := make(map[string]bool)
	for _, p := range plays {
		userID := strings.TrimSpace(p.UserID)
		if seen[userID] {
			continue
		}
		seen[userID] = true
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO users (user_id, created_at, updated_at) VALUES (?, ?, ?)`,
			userID, now, now,
		)
		if err != nil {
			return 0, fmt.Errorf("ensuring user %s: %w", userID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO listening_history (
			user_id, track_id, track_name, artist_id, artist_name, album_name,
			played_at, play_date, duration_ms, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, p := range plays {
		result, err := stmt.ExecContext(ctx,
			strings.TrimSpace(p.UserID),
			strings.TrimSpace(p.TrackID),
			p.TrackName,
			p.ArtistID,
			p.ArtistName,
			p.AlbumName,
			formatTimestamp(p.PlayedAt),
			dateutil.FormatDate(p.Date()),
			p.DurationMs,
			p.ImageURL,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting play %q: %w", p.TrackID, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		if rows > 0 {
			id, err := result.LastInsertId()
			if err != nil {
				return 0, fmt.Errorf("getting last insert id: %w", err)
			}
			p.ID = id
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return inserted, nil
}

// RecentPlays returns the user's latest plays, newest first.
func (s *SQLite) RecentPlays(ctx context.Context, userID string, limit, offset int) ([]*listening.Play, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, track_id, track_name, artist_id, artist_name, album_name,
		       played_at, duration_ms, image_url
		FROM listening_history
		WHERE user_id = ?
		ORDER BY played_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying recent plays: %w", err)
	}
	defer func() { _ = rows.Close() }()

	plays := []*listening.Play{}
	for rows.Next() {
		var (
			p        listening.Play
			playedAt string
		)
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.TrackID,
			&p.TrackName,
			&p.ArtistID,
			&p.ArtistName,
			&p.AlbumName,
			&playedAt,
			&p.DurationMs,
			&p.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning play: %w", err)
		}
		p.PlayedAt, err = parseTimestamp(playedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing played at: %w", err)
		}
		plays = append(plays, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plays: %w", err)
	}

	return plays, nil
}
