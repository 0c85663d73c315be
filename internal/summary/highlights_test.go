package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

type fakeRanker struct {
	days      [7]listening.DayStats
	tracks    []listening.Ranked
	artists   []listening.Ranked
	unique    int
	err       error
	lastLimit int
}

func (r *fakeRanker) TopArtists(_ context.Context, _ string, _ dateutil.WeekRange, limit int) ([]listening.Ranked, error) {
	r.lastLimit = limit
	return r.artists, r.err
}

func (r *fakeRanker) TopTracks(_ context.Context, _ string, _ dateutil.WeekRange, limit int) ([]listening.Ranked, error) {
	return r.tracks, r.err
}

func (r *fakeRanker) DailyStats(context.Context, string, dateutil.WeekRange) ([7]listening.DayStats, error) {
	return r.days, r.err
}

func (r *fakeRanker) UniqueArtists(context.Context, string, dateutil.WeekRange) (int, error) {
	return r.unique, r.err
}

func testRanker() *fakeRanker {
	r := &fakeRanker{
		tracks: []listening.Ranked{
			{ID: "t1", Name: "Teardrop", ArtistName: "Massive Attack", Plays: 3},
			{ID: "t2", Name: "Roads", ArtistName: "Portishead", Plays: 1},
		},
		artists: []listening.Ranked{
			{ID: "ma", Name: "Massive Attack", Plays: 4},
		},
		unique: 2,
	}
	r.days[0] = listening.DayStats{Plays: 2, Minutes: 30}
	r.days[2] = listening.DayStats{Plays: 3, Minutes: 60}
	return r
}

func TestBuildHighlights(t *testing.T) {
	week := dateutil.WeekRangeOf(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		today     time.Time
		wantToday int
		wantAvg   float64
		wantLines []string
	}{
		{
			name:      "current week",
			today:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			wantToday: 2,
			wantAvg:   30,
			wantLines: []string{
				"Today: 1h 00m, 3 songs",
				"Week: 5 songs from 2 artists, 30m a day",
				"1. Teardrop - Massive Attack (3 plays)",
				"2. Roads - Portishead (1 play)",
				"1. Massive Attack (4 plays)",
			},
		},
		{
			name:      "past week",
			today:     time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
			wantToday: -1,
			wantAvg:   90.0 / 7,
			wantLines: []string{"Week: 5 songs from 2 artists, 13m a day"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRanker()
			h, err := BuildHighlights(context.Background(), r, "alice", week, tt.today, 0)
			if err != nil {
				t.Fatalf("BuildHighlights failed: %v", err)
			}
			if r.lastLimit != listening.DefaultTopLimit {
				t.Errorf("limit = %d, want default %d", r.lastLimit, listening.DefaultTopLimit)
			}
			if h.TodayIndex != tt.wantToday {
				t.Errorf("TodayIndex = %d, want %d", h.TodayIndex, tt.wantToday)
			}
			if h.TotalPlays() != 5 || h.TotalMinutes() != 90 {
				t.Errorf("totals = %d plays, %v minutes", h.TotalPlays(), h.TotalMinutes())
			}
			if got := h.AvgDailyMinutes(); got != tt.wantAvg {
				t.Errorf("AvgDailyMinutes = %v, want %v", got, tt.wantAvg)
			}

			text := strings.Join(h.Lines(), "\n")
			for _, want := range tt.wantLines {
				if !strings.Contains(text, want) {
					t.Errorf("lines missing %q:\n%s", want, text)
				}
			}
			if tt.wantToday < 0 && strings.Contains(text, "Today:") {
				t.Errorf("past week should not show today:\n%s", text)
			}
		})
	}
}

func TestHighlights_EmptyWeek(t *testing.T) {
	week := dateutil.WeekRangeOf(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	h, err := BuildHighlights(context.Background(), &fakeRanker{}, "alice", week, week.Start, 5)
	if err != nil {
		t.Fatalf("BuildHighlights failed: %v", err)
	}

	lines := h.Lines()
	if len(lines) != 2 || lines[0] != "Today: 0m, 0 songs" || lines[1] != "No plays this week" {
		t.Errorf("lines = %q", lines)
	}
}

func TestBuildHighlights_Error(t *testing.T) {
	week := dateutil.WeekRangeOf(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	_, err := BuildHighlights(context.Background(), &fakeRanker{err: errors.New("db down")}, "alice", week, week.Start, 5)
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Errorf("error = %v, want wrapped db down", err)
	}
}
