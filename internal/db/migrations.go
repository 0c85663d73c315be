package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			user_id         TEXT PRIMARY KEY,
			display_name    TEXT NOT NULL DEFAULT '',
			profile_pic_url TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS listening_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			track_id    TEXT NOT NULL,
			track_name  TEXT NOT NULL DEFAULT '',
			artist_id   TEXT NOT NULL DEFAULT '',
			artist_name TEXT NOT NULL DEFAULT '',
			album_name  TEXT NOT NULL DEFAULT '',
			played_at   TEXT NOT NULL,
			play_date   TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0 CHECK(duration_ms >= 0),
			image_url   TEXT NOT NULL DEFAULT '',
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, track_id, played_at)
		);

		CREATE INDEX IF NOT EXISTS idx_history_user_date ON listening_history(user_id, play_date);
		CREATE INDEX IF NOT EXISTS idx_history_user_artist ON listening_history(user_id, artist_id);
		CREATE INDEX IF NOT EXISTS idx_history_user_played ON listening_history(user_id, played_at);

		CREATE TABLE IF NOT EXISTS chat_messages (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			user_id    TEXT NOT NULL,
			role       TEXT NOT NULL CHECK(role IN ('system', 'user', 'assistant')),
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chat_user ON chat_messages(user_id, seq);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
