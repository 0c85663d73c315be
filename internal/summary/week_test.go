package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/llm"
)

var week = dateutil.WeekRangeOf(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

func f(v float64) *float64 { return &v }

func testPayload() *chart.Payload {
	return &chart.Payload{
		Labels: chart.Weekdays,
		Range:  week,
		Series: []chart.Series{
			{Label: "Massive Attack", Color: chart.ColorFor(0), Points: chart.Points{f(30), f(0), f(95), f(12), nil, nil, nil}},
			{Label: "Portishead", Color: chart.ColorFor(1), Points: chart.Points{f(0), f(0), f(0), f(0), nil, nil, nil}},
		},
	}
}

func TestSummarizeWeek(t *testing.T) {
	s := SummarizeWeek(testPayload())

	if !s.Range.Equal(week) {
		t.Fatalf("range = %v, want %v", s.Range, week)
	}
	if len(s.Series) != 2 {
		t.Fatalf("series = %d, want 2", len(s.Series))
	}

	first := s.Series[0]
	if first.TotalMinutes != 137 {
		t.Errorf("total = %v, want 137", first.TotalMinutes)
	}
	if first.BestDay != 2 || first.BestMinutes != 95 {
		t.Errorf("best = %d (%v), want 2 (95)", first.BestDay, first.BestMinutes)
	}
	if first.ActiveDays != 3 {
		t.Errorf("active days = %d, want 3", first.ActiveDays)
	}

	second := s.Series[1]
	if second.BestDay != -1 || second.ActiveDays != 0 {
		t.Errorf("silent series = %+v", second)
	}
	if s.TotalMinutes() != 137 {
		t.Errorf("TotalMinutes() = %v, want 137", s.TotalMinutes())
	}
}

func TestWeekSummary_Lines(t *testing.T) {
	s := SummarizeWeek(testPayload())
	s.Insight = "THEME: Bristol nights"

	want := []string{
		"Week 2025-01-13 to 2025-01-19",
		"Massive Attack: 2h 17m, best day Wednesday (1h 35m), 3 active days",
		"Portishead: 0m",
		"",
		"THEME: Bristol nights",
	}
	got := s.Lines()
	if len(got) != len(want) {
		t.Fatalf("lines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWeekSummary_LinesUnavailable(t *testing.T) {
	s := SummarizeWeek(chart.UnavailablePayload(week))
	text := s.Text()
	if !strings.HasSuffix(text, "Listening data unavailable") {
		t.Errorf("text = %q", text)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0m"},
		{0.4, "0m"},
		{42.6, "43m"},
		{60, "1h 00m"},
		{125, "2h 05m"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fakeClient struct {
	reply string
	err   error
	calls int
	sent  []llm.Message
}

func (c *fakeClient) Chat(_ context.Context, messages []llm.Message) (string, error) {
	c.calls++
	c.sent = messages
	return c.reply, c.err
}

func (c *fakeClient) ChatJSON(context.Context, []llm.Message, any) error {
	return errors.New("not implemented")
}

type fakeLoader struct {
	payload *chart.Payload
	err     error
	rng     dateutil.WeekRange
	artists []listening.Artist
}

func (l *fakeLoader) Load(_ context.Context, _ string, rng dateutil.WeekRange, artists []listening.Artist) (*chart.Payload, error) {
	l.rng = rng
	l.artists = artists
	return l.payload, l.err
}

func TestBuildWeekSummary(t *testing.T) {
	loader := &fakeLoader{payload: testPayload()}
	client := &fakeClient{reply: "  THEME: Trip-hop  \n"}

	s, payload, err := BuildWeekSummary(context.Background(), loader, BuildWeekSummaryOptions{
		UserID:         "alice",
		WeekOf:         time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
		Artists:        []listening.Artist{{ID: "ma", Name: "Massive Attack"}},
		IncludeInsight: true,
		Client:         client,
	})
	if err != nil {
		t.Fatalf("BuildWeekSummary() error = %v", err)
	}
	if !loader.rng.Equal(week) {
		t.Errorf("loaded range = %v, want %v", loader.rng, week)
	}
	if len(loader.artists) != 1 {
		t.Errorf("artists not forwarded: %v", loader.artists)
	}
	if payload != loader.payload {
		t.Error("payload not returned")
	}
	if s.Insight != "THEME: Trip-hop" {
		t.Errorf("insight = %q", s.Insight)
	}
	if !strings.Contains(client.sent[1].Content, "Massive Attack: Mon=30 Tue=0 Wed=95 Thu=12 Fri=- Sat=- Sun=-") {
		t.Errorf("prompt missing week data:\n%s", client.sent[1].Content)
	}
}

func TestBuildWeekSummary_Errors(t *testing.T) {
	t.Run("loader", func(t *testing.T) {
		_, _, err := BuildWeekSummary(context.Background(), &fakeLoader{err: errors.New("boom")}, BuildWeekSummaryOptions{})
		if err == nil || !strings.Contains(err.Error(), "loading week") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("missing client", func(t *testing.T) {
		_, _, err := BuildWeekSummary(context.Background(), &fakeLoader{payload: testPayload()}, BuildWeekSummaryOptions{IncludeInsight: true})
		if err == nil {
			t.Fatal("expected error without a client")
		}
	})
}

func TestInsight_SkipsEmptyWeek(t *testing.T) {
	client := &fakeClient{reply: "ignored"}
	p := chart.ZeroPayload(week)

	got, err := Insight(context.Background(), client, SummarizeWeek(p), p)
	if err != nil {
		t.Fatalf("Insight() error = %v", err)
	}
	if got != "" || client.calls != 0 {
		t.Errorf("insight = %q, calls = %d; want no model call", got, client.calls)
	}
}
