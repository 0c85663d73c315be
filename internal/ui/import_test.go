package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/db"
	"github.com/javiermolinar/tuneweek/internal/events"
	"github.com/javiermolinar/tuneweek/internal/importer"
)

const export = `[
  {
    "ts": "2025-01-13T08:15:00Z",
    "ms_played": 180000,
    "master_metadata_track_name": "Jóga",
    "master_metadata_album_artist_name": "Björk",
    "master_metadata_album_album_name": "Homogenic",
    "spotify_track_uri": "spotify:track:4a"
  },
  {
    "ts": "2025-01-14T21:00:00Z",
    "ms_played": 240000,
    "master_metadata_track_name": "Hunter",
    "master_metadata_album_artist_name": "Björk",
    "master_metadata_album_album_name": "Homogenic",
    "spotify_track_uri": "spotify:track:4b"
  }
]`

func TestImportFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := db.New(filepath.Join(dir, "tuneweek.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer func() { _ = store.Close() }()

	path := filepath.Join(dir, "Streaming_History_Audio_2025.json")
	if err := os.WriteFile(path, []byte(export), 0o644); err != nil {
		t.Fatalf("writing export: %v", err)
	}

	DisableColor()
	defer EnableColor()

	imp := importer.New(store, events.Nop{}, zerolog.Nop())
	var out bytes.Buffer
	if err := importFiles(ctx, &out, store, imp, "alice", "Alice", []string{path}, zerolog.Nop()); err != nil {
		t.Fatalf("importFiles failed: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 2 new plays") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	user, err := store.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user == nil || user.DisplayName != "Alice" {
		t.Fatalf("expected user Alice, got %+v", user)
	}

	// A second import stores nothing new and keeps the display name.
	out.Reset()
	if err := importFiles(ctx, &out, store, imp, "alice", "", []string{path}, zerolog.Nop()); err != nil {
		t.Fatalf("second importFiles failed: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 0 new plays") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	user, err = store.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.DisplayName != "Alice" {
		t.Errorf("display name = %q, want Alice", user.DisplayName)
	}

	plays, err := store.RecentPlays(ctx, "alice", 10, 0)
	if err != nil {
		t.Fatalf("RecentPlays failed: %v", err)
	}
	if len(plays) != 2 {
		t.Fatalf("expected 2 plays, got %d", len(plays))
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "export.json")
	if err := os.WriteFile(file, []byte("[]"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "file", path: file},
		{name: "missing", path: filepath.Join(dir, "nope.json"), wantErr: "does not exist"},
		{name: "directory", path: dir, wantErr: "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFile(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := resolvePath("~/exports/a.json")
	if err != nil {
		t.Fatalf("resolvePath failed: %v", err)
	}
	if want := filepath.Join(home, "exports", "a.json"); got != want {
		t.Errorf("resolvePath = %q, want %q", got, want)
	}

	if _, err := resolvePath("   "); err == nil {
		t.Error("expected error for empty path")
	}
}
