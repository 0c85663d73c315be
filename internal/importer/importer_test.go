package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/db"
	"github.com/javiermolinar/tuneweek/internal/events"
)

const extendedExport = `[
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
    "master_metadata_album_artist_name": "bjork",
    "master_metadata_album_album_name": "Homogenic",
    "spotify_track_uri": "spotify:track:4b"
  },
  {
    "ts": "2025-01-14T22:00:00Z",
    "ms_played": 1800000,
    "master_metadata_track_name": null,
    "master_metadata_album_artist_name": null,
    "spotify_track_uri": null,
    "episode_name": "Some podcast"
  }
]`

const recentlyPlayedExport = `{
  "items": [
    {
      "played_at": "2025-01-15T09:30:00.123Z",
      "track": {
        "id": "t1",
        "name": "Teardrop",
        "duration_ms": 330000,
        "artists": [{"id": "ma", "name": "Massive Attack"}, {"id": "lf", "name": "Liz Fraser"}],
        "album": {"name": "Mezzanine", "images": [{"url": "https://img/large"}, {"url": "https://img/small"}]}
      }
    },
    {
      "played_at": "2025-01-15T09:00:00.000Z",
      "track": {"id": "t2", "name": "Angel", "duration_ms": 379000, "artists": [], "album": {"name": "Mezzanine", "images": []}}
    },
    {
      "played_at": "2025-01-15T08:00:00.000Z",
      "track": null
    }
  ],
  "next": null
}`

type fakePublisher struct {
	events []events.PlaysImported
	err    error
}

func (p *fakePublisher) PublishImported(_ context.Context, evs ...events.PlaysImported) error {
	p.events = append(p.events, evs...)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func newTestStore(t *testing.T) *db.SQLite {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"extended", extendedExport, FormatExtended},
		{"recently played", recentlyPlayedExport, FormatRecentlyPlayed},
		{"empty array", "  []", FormatExtended},
		{"object without items", `{"tracks": []}`, FormatUnknown},
		{"empty", "", FormatUnknown},
		{"csv", "ts,ms_played", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseExtended(t *testing.T) {
	plays, read, err := ParseExtended([]byte(extendedExport), "alice")
	if err != nil {
		t.Fatalf("ParseExtended() error = %v", err)
	}
	if read != 3 {
		t.Errorf("read = %d, want 3", read)
	}
	if len(plays) != 2 {
		t.Fatalf("plays = %d, want 2", len(plays))
	}

	p := plays[0]
	if p.TrackID != "4a" || p.TrackName != "Jóga" || p.AlbumName != "Homogenic" {
		t.Errorf("play = %+v", p)
	}
	if p.DurationMs != 180000 {
		t.Errorf("duration = %d, want 180000", p.DurationMs)
	}
	if !p.PlayedAt.Equal(time.Date(2025, 1, 13, 8, 15, 0, 0, time.UTC)) {
		t.Errorf("played at = %v", p.PlayedAt)
	}
	if p.ArtistID == "" || p.ArtistID != plays[1].ArtistID {
		t.Errorf("artist IDs = %q, %q; want the same derived ID", p.ArtistID, plays[1].ArtistID)
	}
}

func TestParseRecentlyPlayed(t *testing.T) {
	plays, read, err := ParseRecentlyPlayed([]byte(recentlyPlayedExport), "alice")
	if err != nil {
		t.Fatalf("ParseRecentlyPlayed() error = %v", err)
	}
	if read != 3 || len(plays) != 2 {
		t.Fatalf("read = %d, plays = %d; want 3, 2", read, len(plays))
	}

	p := plays[0]
	if p.ArtistID != "ma" || p.ArtistName != "Massive Attack" {
		t.Errorf("artist = %s %s, want the first listed artist", p.ArtistID, p.ArtistName)
	}
	if p.ImageURL != "https://img/large" {
		t.Errorf("image = %q", p.ImageURL)
	}
	if p.PlayedAt.Nanosecond() != 123000000 {
		t.Errorf("played at lost milliseconds: %v", p.PlayedAt)
	}
	if plays[1].ArtistID != "" || plays[1].ImageURL != "" {
		t.Errorf("play without artists = %+v", plays[1])
	}
}

func TestArtistIDFromName(t *testing.T) {
	if ArtistIDFromName("Sigur Rós") != ArtistIDFromName("sigur ros") {
		t.Error("case and accents should not change the derived ID")
	}
	if ArtistIDFromName("Air") == ArtistIDFromName("Aimee") {
		t.Error("different names should not collide")
	}
	if ArtistIDFromName("  ") != "" {
		t.Error("blank name should have no ID")
	}
}

func TestImporter_Import(t *testing.T) {
	store := newTestStore(t)
	pub := &fakePublisher{}
	imp := New(store, pub, zerolog.Nop())
	ctx := context.Background()

	res, err := imp.Import(ctx, "alice", strings.NewReader(extendedExport))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Format != FormatExtended || res.Read != 3 || res.Saved != 2 || res.Skipped != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(pub.events) != 1 || pub.events[0].UserID != "alice" || pub.events[0].Saved != 2 {
		t.Fatalf("events = %+v", pub.events)
	}
	if !pub.events[0].Earliest.Equal(time.Date(2025, 1, 13, 8, 15, 0, 0, time.UTC)) {
		t.Errorf("earliest = %v", pub.events[0].Earliest)
	}

	rng := dateutil.WeekRangeOf(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC))
	stored, err := store.FetchEvents(ctx, "alice", rng, "")
	if err != nil {
		t.Fatalf("FetchEvents() error = %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored events = %d, want 2", len(stored))
	}

	// Importing the same file again stores nothing and publishes nothing.
	res, err = imp.Import(ctx, "alice", strings.NewReader(extendedExport))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Saved != 0 || res.Skipped != 3 {
		t.Errorf("re-import result = %+v", res)
	}
	if len(pub.events) != 1 {
		t.Errorf("re-import published %d events", len(pub.events)-1)
	}
}

func TestImporter_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	imp := New(newTestStore(t), pub, zerolog.Nop())

	res, err := imp.Import(context.Background(), "alice", strings.NewReader(recentlyPlayedExport))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Saved != 2 {
		t.Errorf("saved = %d, want 2", res.Saved)
	}
}

func TestImporter_Errors(t *testing.T) {
	imp := New(newTestStore(t), nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := imp.Import(ctx, " ", strings.NewReader(extendedExport)); err == nil {
		t.Error("expected error for empty user")
	}
	if _, err := imp.Import(ctx, "alice", strings.NewReader(`{"foo": 1}`)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}
	if _, err := imp.Import(ctx, "alice", strings.NewReader(`[{"ts": 5}]`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestImporter_ImportFile(t *testing.T) {
	imp := New(newTestStore(t), nil, zerolog.Nop())
	path := filepath.Join(t.TempDir(), "StreamingHistory_music_0.json")
	if err := os.WriteFile(path, []byte(extendedExport), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := imp.ImportFile(context.Background(), "alice", path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if res.Saved != 2 {
		t.Errorf("saved = %d, want 2", res.Saved)
	}

	if _, err := imp.ImportFile(context.Background(), "alice", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
