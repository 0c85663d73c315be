package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/chat"
	"github.com/javiermolinar/tuneweek/internal/dashboard"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/db"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// Wednesday 2025-01-15, noon UTC.
var now = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type fakeChat struct {
	asked   []chat.Request
	cleared []string
	err     error
}

func (c *fakeChat) Ask(_ context.Context, req chat.Request) (*chat.Response, error) {
	if req.UserID == "" || req.Message == "" {
		return nil, chat.ErrInvalidRequest
	}
	if c.err != nil {
		return nil, c.err
	}
	c.asked = append(c.asked, req)
	return &chat.Response{Response: "You like trip-hop.", TracksAnalyzed: 2}, nil
}

func (c *fakeChat) Clear(_ context.Context, userID string) error {
	if userID == "" {
		return chat.ErrInvalidRequest
	}
	c.cleared = append(c.cleared, userID)
	return nil
}

type brokenData struct{}

func (brokenData) FetchEvents(context.Context, string, dateutil.WeekRange, string) ([]listening.Event, error) {
	return nil, errors.New("connection refused")
}

func (brokenData) FetchEarliestDate(context.Context, string) (*time.Time, error) {
	return nil, errors.New("connection refused")
}

func (brokenData) FetchArtistSuggestions(context.Context, string, string, int) ([]listening.Artist, error) {
	return nil, errors.New("connection refused")
}

func (brokenData) RecentPlays(context.Context, string, int, int) ([]*listening.Play, error) {
	return nil, errors.New("connection refused")
}

func (brokenData) LookupArtist(context.Context, string, string) (*listening.Artist, error) {
	return nil, errors.New("connection refused")
}

func (brokenData) TopArtists(context.Context, string, dateutil.WeekRange, int) ([]listening.Ranked, error) {
	return nil, errors.New("connection refused")
}

func (brokenData) TopTracks(context.Context, string, dateutil.WeekRange, int) ([]listening.Ranked, error) {
	return nil, errors.New("connection refused")
}

func (brokenData) DailyStats(context.Context, string, dateutil.WeekRange) ([7]listening.DayStats, error) {
	return [7]listening.DayStats{}, errors.New("connection refused")
}

func (brokenData) UniqueArtists(context.Context, string, dateutil.WeekRange) (int, error) {
	return 0, errors.New("connection refused")
}

func newTestServer(t *testing.T, data Data, backend chat.Backend) *httptest.Server {
	t.Helper()
	loader := dashboard.NewLoader(data, dashboard.LoaderOptions{
		Now:    func() time.Time { return now },
		Logger: zerolog.Nop(),
	})
	s := New(Options{Data: data, Loader: loader, Chat: backend, Logger: zerolog.Nop()})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func seededStore(t *testing.T) *db.SQLite {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	plays := []*listening.Play{
		{UserID: "alice", TrackID: "t1", TrackName: "Teardrop", ArtistID: "ma", ArtistName: "Massive Attack", PlayedAt: time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC), DurationMs: 120000},
		{UserID: "alice", TrackID: "t2", TrackName: "Roads", ArtistID: "ph", ArtistName: "Portishead", PlayedAt: time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC), DurationMs: 60000},
		{UserID: "alice", TrackID: "t3", TrackName: "Angel", ArtistID: "ma", ArtistName: "Massive Attack", PlayedAt: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), DurationMs: 300000},
	}
	if _, err := store.SavePlays(context.Background(), plays); err != nil {
		t.Fatalf("seeding plays: %v", err)
	}
	return store
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(out)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	status, body := get(t, ts.URL+"/health")
	if status != http.StatusOK || strings.TrimSpace(body) != `{"status":"ok"}` {
		t.Errorf("GET /health = %d %s", status, body)
	}
}

func TestWeek(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	status, body := get(t, ts.URL+"/api/users/alice/week")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if !strings.Contains(body, `"points":[2,1,null,null,null,null,null]`) {
		t.Errorf("current week should carry null gaps: %s", body)
	}
	if !strings.Contains(body, `"range":{"startDate":"2025-01-13","endDate":"2025-01-19"}`) {
		t.Errorf("unexpected range: %s", body)
	}

	status, body = get(t, ts.URL+"/api/users/alice/week?date=2025-01-09&artist=ma&artist=ph&artist=ma")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}

	var payload struct {
		Series []struct {
			Label  string     `json:"label"`
			Points []*float64 `json:"points"`
			Color  string     `json:"color"`
		} `json:"series"`
		Unavailable bool `json:"unavailable"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if len(payload.Series) != 2 {
		t.Fatalf("series = %d, want 2 (duplicates dropped)", len(payload.Series))
	}
	if payload.Series[0].Label != "Massive Attack" || *payload.Series[0].Points[0] != 5 {
		t.Errorf("first series = %+v", payload.Series[0])
	}
	for i, p := range payload.Series[1].Points {
		if p == nil || *p != 0 {
			t.Errorf("past week point %d = %v, want 0", i, p)
		}
	}
}

func TestWeek_ArtistLabels(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	tests := []struct {
		name      string
		query     string
		wantLabel string
	}{
		{name: "name from history", query: "date=2025-01-13&artist=ph", wantLabel: "Portishead"},
		{name: "name when the week has no plays", query: "date=2025-02-03&artist=ph", wantLabel: "Portishead"},
		{name: "unknown artist keeps its id", query: "date=2025-01-13&artist=name:nobody", wantLabel: "name:nobody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, body := get(t, ts.URL+"/api/users/alice/week?"+tt.query)
			var payload struct {
				Series []struct {
					Label string `json:"label"`
				} `json:"series"`
			}
			if err := json.Unmarshal([]byte(body), &payload); err != nil {
				t.Fatalf("decoding payload: %v", err)
			}
			if len(payload.Series) != 1 || payload.Series[0].Label != tt.wantLabel {
				t.Errorf("series = %+v, want label %q", payload.Series, tt.wantLabel)
			}
		})
	}
}

func TestWeek_BadDate(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	status, _ := get(t, ts.URL+"/api/users/alice/week?date=09/01/2025")
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestWeek_Unavailable(t *testing.T) {
	ts := newTestServer(t, brokenData{}, nil)

	status, body := get(t, ts.URL+"/api/users/alice/week")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 for data outages", status)
	}
	if !strings.Contains(body, `"unavailable":true`) || !strings.Contains(body, `"series":[]`) {
		t.Errorf("body = %s", body)
	}
}

func TestEarliest(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	_, body := get(t, ts.URL+"/api/users/alice/earliest")
	if strings.TrimSpace(body) != `{"earliest":"2025-01-06"}` {
		t.Errorf("alice earliest = %s", body)
	}

	_, body = get(t, ts.URL+"/api/users/nobody/earliest")
	if strings.TrimSpace(body) != `{"earliest":null}` {
		t.Errorf("unknown user earliest = %s", body)
	}

	broken := newTestServer(t, brokenData{}, nil)
	if status, _ := get(t, broken.URL+"/api/users/alice/earliest"); status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
}

func TestArtists(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	_, body := get(t, ts.URL+"/api/users/alice/artists?q=attack")
	if strings.TrimSpace(body) != `{"artists":[{"artistId":"ma","artistName":"Massive Attack"}]}` {
		t.Errorf("body = %s", body)
	}

	_, body = get(t, ts.URL+"/api/users/alice/artists?q=")
	if strings.TrimSpace(body) != `{"artists":[]}` {
		t.Errorf("empty query body = %s", body)
	}

	for _, limit := range []string{"x", "0", "-1"} {
		if status, _ := get(t, ts.URL+"/api/users/alice/artists?q=a&limit="+limit); status != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, status)
		}
	}
}

func TestHistory(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	status, body := get(t, ts.URL+"/api/users/alice/history?limit=2")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	var resp historyResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.UserID != "alice" || resp.Limit != 2 || len(resp.Tracks) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Tracks[0].TrackName != "Roads" || resp.Tracks[0].PlayedAt != "2025-01-14T09:00:00Z" {
		t.Errorf("newest track = %+v", resp.Tracks[0])
	}
}

func TestHistory_BadPaging(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	for _, query := range []string{"limit=0", "limit=-5", "offset=-1", "offset=x"} {
		if status, _ := get(t, ts.URL+"/api/users/alice/history?"+query); status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, status)
		}
	}
}

func TestTopArtists(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	status, body := get(t, ts.URL+"/api/users/alice/top-artists?date=2025-01-14")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}

	var resp topResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Limit != listening.DefaultTopLimit || len(resp.Items) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	// Both artists have one play this week; Massive Attack has more minutes.
	if resp.Items[0].Name != "Massive Attack" || resp.Items[0].Plays != 1 || resp.Items[0].Minutes != 2 {
		t.Errorf("first = %+v", resp.Items[0])
	}

	_, body = get(t, ts.URL+"/api/users/alice/top-artists?date=2025-01-14&limit=1")
	if !strings.Contains(body, `"limit":1`) || strings.Contains(body, "Portishead") {
		t.Errorf("limit=1 body = %s", body)
	}

	if status, _ := get(t, ts.URL+"/api/users/alice/top-artists?limit=0"); status != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", status)
	}
	if status, _ := get(t, ts.URL+"/api/users/alice/top-artists?date=yesterday"); status != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", status)
	}
}

func TestTopTracks(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	_, body := get(t, ts.URL+"/api/users/alice/top-tracks?date=2025-01-06")
	var resp topResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Angel" || resp.Items[0].ArtistName != "Massive Attack" {
		t.Errorf("items = %+v", resp.Items)
	}

	broken := newTestServer(t, brokenData{}, nil)
	if status, _ := get(t, broken.URL+"/api/users/alice/top-tracks"); status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	status, body := get(t, ts.URL+"/api/users/alice/stats")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}

	var resp statsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Date != "2025-01-15" || resp.Day.Plays != 0 {
		t.Errorf("today = %s %+v, want 2025-01-15 with no plays", resp.Date, resp.Day)
	}
	if resp.TotalTracks != 2 || resp.TotalMinutes != 3 || resp.UniqueArtists != 2 {
		t.Errorf("totals = %+v", resp)
	}
	// Monday to Wednesday elapsed.
	if resp.AvgDailyMinutes != 1 {
		t.Errorf("AvgDailyMinutes = %v, want 1", resp.AvgDailyMinutes)
	}
	if len(resp.Days) != 7 || resp.Days[0].Date != "2025-01-13" || resp.Days[0].Plays != 1 {
		t.Errorf("days = %+v", resp.Days)
	}

	_, body = get(t, ts.URL+"/api/users/alice/stats?date=2025-01-14")
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Day.Plays != 1 || resp.Day.Minutes != 1 {
		t.Errorf("day = %+v, want Roads on Tuesday", resp.Day)
	}

	broken := newTestServer(t, brokenData{}, nil)
	if status, _ := get(t, broken.URL+"/api/users/alice/stats"); status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
}

func TestChat(t *testing.T) {
	backend := &fakeChat{}
	ts := newTestServer(t, seededStore(t), backend)

	status, body := post(t, ts.URL+"/chat", `{"userId":"alice","message":"What do I like?","userContext":"rainy day"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if !strings.Contains(body, `"response":"You like trip-hop."`) {
		t.Errorf("body = %s", body)
	}
	if len(backend.asked) != 1 || backend.asked[0].UserContext != "rainy day" {
		t.Errorf("asked = %+v", backend.asked)
	}

	status, body = post(t, ts.URL+"/chat", `{"userId":"alice"}`)
	if status != http.StatusBadRequest || !strings.Contains(body, "userId and message required") {
		t.Errorf("missing message = %d %s", status, body)
	}

	if status, _ = post(t, ts.URL+"/chat", `not json`); status != http.StatusBadRequest {
		t.Errorf("invalid json status = %d", status)
	}

	backend.err = errors.New("model offline")
	if status, _ = post(t, ts.URL+"/chat", `{"userId":"alice","message":"hi"}`); status != http.StatusInternalServerError {
		t.Errorf("backend failure status = %d, want 500", status)
	}
}

func TestClear(t *testing.T) {
	backend := &fakeChat{}
	ts := newTestServer(t, seededStore(t), backend)

	status, body := post(t, ts.URL+"/clear", `{"userId":"alice"}`)
	if status != http.StatusOK || strings.TrimSpace(body) != `{"success":true}` {
		t.Errorf("clear = %d %s", status, body)
	}
	if len(backend.cleared) != 1 {
		t.Errorf("cleared = %v", backend.cleared)
	}

	if status, _ = post(t, ts.URL+"/clear", `{}`); status != http.StatusBadRequest {
		t.Errorf("missing user status = %d", status)
	}
}

func TestChatDisabled(t *testing.T) {
	ts := newTestServer(t, seededStore(t), nil)

	if status, _ := post(t, ts.URL+"/chat", `{"userId":"alice","message":"hi"}`); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a chat backend", status)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, seededStore(t), &fakeChat{})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS /chat: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}
