package db

import (
	"context"
	"fmt"
	"slices"

	"github.com/javiermolinar/tuneweek/internal/chat"
)

// History returns the user's remembered chat messages, oldest first.
func (s *SQLite) History(ctx context.Context, userID string) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY seq DESC
		LIMIT ?
	`, userID, chat.MaxHistory)
	if err != nil {
		return nil, fmt.Errorf("querying chat history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	messages := []chat.Message{}
	for rows.Next() {
		var (
			m         chat.Message
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		m.CreatedAt, err = parseTimestamp(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat messages: %w", err)
	}

	slices.Reverse(messages)
	return messages, nil
}

// Append stores msg and deletes the user's messages beyond MaxHistory.
func (s *SQLite) Append(ctx context.Context, msg chat.Message) error {
	msg = chat.Stamp(msg, s.now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_messages (id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.UserID, msg.Role, msg.Content, formatTimestamp(msg.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM chat_messages
		WHERE user_id = ? AND seq NOT IN (
			SELECT seq FROM chat_messages WHERE user_id = ? ORDER BY seq DESC LIMIT ?
		)
	`, msg.UserID, msg.UserID, chat.MaxHistory)
	if err != nil {
		return fmt.Errorf("trimming chat history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Clear deletes every chat message for the user.
func (s *SQLite) Clear(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing chat history: %w", err)
	}
	return nil
}
