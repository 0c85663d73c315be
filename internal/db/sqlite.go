// Package db provides SQLite storage implementation.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/tuneweek/internal/chat"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// timestampLayout is fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// SQLite implements listening.Store and chat.Memory using SQLite.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ listening.Store = (*SQLite)(nil)
	_ chat.Memory     = (*SQLite)(nil)
)

// New creates a new SQLite repository and runs migrations. The parent
// directory of path is created when missing.
func New(path string) (*SQLite, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp accepts the stored layout plus the formats SQLite itself
// produces for CURRENT_TIMESTAMP and RFC 3339 values.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		timestampLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}

// parseDate parses a stored calendar date into midnight UTC. Values that
// came back with a time component keep only their date.
func parseDate(s string) (time.Time, error) {
	if len(s) >= len(dateutil.DateLayout) {
		if t, err := time.Parse(dateutil.DateLayout, s[:len(dateutil.DateLayout)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
