package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/tuneweek/internal/cache"
	"github.com/javiermolinar/tuneweek/internal/dashboard"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
)

// The configured zone decides which date is today. Plays stay bucketed by
// their UTC date.
func TestTimezoneDecidesCurrentWeek(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	store := openStore(t)
	importExport(t, store, `[
  {"ts": "2025-01-19T18:00:00Z", "ms_played": 600000, "master_metadata_track_name": "Pyramid Song", "master_metadata_album_artist_name": "Radiohead", "spotify_track_uri": "spotify:track:r3"}
]`)

	// Monday 03:00 UTC is still Sunday evening in Los Angeles.
	instant := time.Date(2025, 1, 20, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		loc       *time.Location
		wantStart string
		wantPts   string
	}{
		{name: "utc", loc: time.UTC, wantStart: "2025-01-20", wantPts: "- - - - - - -"},
		{name: "los angeles", loc: la, wantStart: "2025-01-13", wantPts: "0 0 0 0 0 0 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := cache.New(8)
			if err != nil {
				t.Fatalf("creating cache: %v", err)
			}
			loader := dashboard.NewLoader(store, dashboard.LoaderOptions{
				Cache:    c,
				Now:      func() time.Time { return instant },
				Location: tt.loc,
			})

			week := loader.ThisWeek()
			if start, _ := week.Format(); start != tt.wantStart {
				t.Fatalf("this week starts %s, want %s", start, tt.wantStart)
			}
			if !week.Contains(loader.Today()) {
				t.Fatalf("today %s outside %s", dateutil.FormatDate(loader.Today()), week)
			}

			payload, err := loader.Load(context.Background(), userID, week, nil)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got := strings.Join(minutes(t, payload.Series[0].Points), " "); got != tt.wantPts {
				t.Errorf("points = %q, want %q", got, tt.wantPts)
			}
		})
	}
}
