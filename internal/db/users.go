package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/tuneweek/internal/listening"
)

// UpsertUser creates the user or refreshes its profile fields.
func (s *SQLite) UpsertUser(ctx context.Context, u *listening.User) error {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return listening.ErrEmptyUserID
	}

	now := s.now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, display_name, profile_pic_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			profile_pic_url = excluded.profile_pic_url,
			updated_at = excluded.updated_at
	`, u.ID, u.DisplayName, u.ProfilePicURL, formatTimestamp(u.CreatedAt), formatTimestamp(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID. Returns nil, nil if not found.
func (s *SQLite) GetUser(ctx context.Context, userID string) (*listening.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, display_name, profile_pic_url, created_at, updated_at
		FROM users
		WHERE user_id = ?
	`, userID)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns every user ordered by ID.
func (s *SQLite) ListUsers(ctx context.Context) ([]*listening.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, display_name, profile_pic_url, created_at, updated_at
		FROM users
		ORDER BY user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*listening.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*listening.User, error) {
	var (
		u                    listening.User
		createdAt, updatedAt string
	)
	if err := row.Scan(&u.ID, &u.DisplayName, &u.ProfilePicURL, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	var err error
	if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &u, nil
}
