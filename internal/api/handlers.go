package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/javiermolinar/tuneweek/internal/chat"
	"github.com/javiermolinar/tuneweek/internal/dashboard"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/summary"
)

type errorResponse struct {
	Error string `json:"error"`
}

type earliestResponse struct {
	Earliest *string `json:"earliest"`
}

type artistsResponse struct {
	Artists []listening.Artist `json:"artists"`
}

type track struct {
	TrackID    string `json:"trackId"`
	TrackName  string `json:"trackName"`
	ArtistID   string `json:"artistId"`
	ArtistName string `json:"artistName"`
	AlbumName  string `json:"albumName"`
	PlayedAt   string `json:"playedAt"`
	DurationMs int64  `json:"durationMs"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

type historyResponse struct {
	UserID string  `json:"userId"`
	Tracks []track `json:"tracks"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type topResponse struct {
	UserID string             `json:"userId"`
	Range  dateutil.WeekRange `json:"range"`
	Limit  int                `json:"limit"`
	Items  []listening.Ranked `json:"items"`
}

type dayResponse struct {
	Date    string  `json:"date"`
	Plays   int     `json:"plays"`
	Minutes float64 `json:"minutes"`
}

type statsResponse struct {
	UserID          string             `json:"userId"`
	Range           dateutil.WeekRange `json:"range"`
	Date            string             `json:"date"`
	Day             dayResponse        `json:"day"`
	TotalMinutes    float64            `json:"totalMinutes"`
	TotalTracks     int                `json:"totalTracks"`
	UniqueArtists   int                `json:"uniqueArtists"`
	AvgDailyMinutes float64            `json:"avgDailyMinutes"`
	Days            []dayResponse      `json:"days"`
}

type clearRequest struct {
	UserID string `json:"userId"`
}

type clearResponse struct {
	Success bool `json:"success"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// week serves the chart for the week containing ?date (default today).
// Each ?artist adds one series. Data outages still answer 200 with an
// unavailable payload.
func (s *Server) week(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	q := r.URL.Query()

	rng, _, err := s.weekParam(q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	var artists []listening.Artist
	seen := make(map[string]bool)
	for _, id := range q["artist"] {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		artists = append(artists, s.lookupArtist(r.Context(), userID, id))
	}

	payload, err := s.loader.LoadOrFallback(r.Context(), userID, rng, artists)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Str("range", rng.String()).Msg("loading week")
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) earliest(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	d, err := s.data.FetchEarliestDate(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("fetching earliest play")
		writeError(w, http.StatusServiceUnavailable, "listening data unavailable")
		return
	}

	resp := earliestResponse{}
	if d != nil {
		formatted := dateutil.FormatDate(*d)
		resp.Earliest = &formatted
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) artists(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	q := r.URL.Query()

	limit, err := limitParam(q.Get("limit"), dashboard.DefaultSuggestions)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	artists, err := s.data.FetchArtistSuggestions(r.Context(), userID, q.Get("q"), limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("fetching artist suggestions")
		writeError(w, http.StatusServiceUnavailable, "listening data unavailable")
		return
	}
	writeJSON(w, http.StatusOK, artistsResponse{Artists: artists})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	q := r.URL.Query()

	limit, err := limitParam(q.Get("limit"), DefaultHistoryLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	offset, err := offsetParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	plays, err := s.data.RecentPlays(r.Context(), userID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("fetching history")
		writeError(w, http.StatusServiceUnavailable, "listening data unavailable")
		return
	}

	resp := historyResponse{
		UserID: userID,
		Tracks: make([]track, 0, len(plays)),
		Limit:  limit,
		Offset: offset,
	}
	for _, p := range plays {
		resp.Tracks = append(resp.Tracks, track{
			TrackID:    p.TrackID,
			TrackName:  p.TrackName,
			ArtistID:   p.ArtistID,
			ArtistName: p.ArtistName,
			AlbumName:  p.AlbumName,
			PlayedAt:   p.PlayedAt.UTC().Format(time.RFC3339),
			DurationMs: p.DurationMs,
			ImageURL:   p.ImageURL,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// lookupArtist names a requested artist from the user's history so chart
// labels match the terminal. Unknown artists keep their ID as the label.
func (s *Server) lookupArtist(ctx context.Context, userID, id string) listening.Artist {
	a, err := s.data.LookupArtist(ctx, userID, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Str("artist", id).Msg("looking up artist")
	}
	if a == nil || a.Name == "" {
		return listening.Artist{ID: id, Name: id}
	}
	return *a
}

// weekParam resolves ?date to its week and the day itself. Without a date
// it is the current week and today.
func (s *Server) weekParam(v string) (dateutil.WeekRange, time.Time, error) {
	day := s.loader.Today()
	if v != "" {
		d, err := dateutil.ParseDate(v)
		if err != nil {
			return dateutil.WeekRange{}, time.Time{}, err
		}
		day = d
	}
	return dateutil.WeekRangeOf(day), day, nil
}

func (s *Server) topArtists(w http.ResponseWriter, r *http.Request) {
	s.top(w, r, "artists", s.data.TopArtists)
}

func (s *Server) topTracks(w http.ResponseWriter, r *http.Request) {
	s.top(w, r, "tracks", s.data.TopTracks)
}

type topFunc func(ctx context.Context, userID string, rng dateutil.WeekRange, limit int) ([]listening.Ranked, error)

func (s *Server) top(w http.ResponseWriter, r *http.Request, what string, fetch topFunc) {
	userID := mux.Vars(r)["userID"]
	q := r.URL.Query()

	rng, _, err := s.weekParam(q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	limit, err := limitParam(q.Get("limit"), listening.DefaultTopLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	ranked, err := fetch(r.Context(), userID, rng, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Str("top", what).Msg("fetching top list")
		writeError(w, http.StatusServiceUnavailable, "listening data unavailable")
		return
	}
	writeJSON(w, http.StatusOK, topResponse{UserID: userID, Range: rng, Limit: limit, Items: ranked})
}

// stats serves play counts for ?date and its week.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	ctx := r.Context()

	rng, day, err := s.weekParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	h, err := summary.BuildHighlights(ctx, s.data, userID, rng, s.loader.Today(), listening.DefaultTopLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("fetching stats")
		writeError(w, http.StatusServiceUnavailable, "listening data unavailable")
		return
	}

	resp := statsResponse{
		UserID:          userID,
		Range:           rng,
		Date:            dateutil.FormatDate(day),
		Day:             toDay(h.Days[dateutil.WeekdayIndex(day)]),
		TotalMinutes:    h.TotalMinutes(),
		TotalTracks:     h.TotalPlays(),
		UniqueArtists:   h.UniqueArtists,
		AvgDailyMinutes: h.AvgDailyMinutes(),
		Days:            make([]dayResponse, 0, len(h.Days)),
	}
	for _, d := range h.Days {
		resp.Days = append(resp.Days, toDay(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toDay(d listening.DayStats) dayResponse {
	return dayResponse{Date: dateutil.FormatDate(d.Date), Plays: d.Plays, Minutes: d.Minutes}
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	resp, err := s.chat.Ask(r.Context(), req)
	if errors.Is(err, chat.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user", req.UserID).Msg("answering chat")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	err := s.chat.Clear(r.Context(), req.UserID)
	if errors.Is(err, chat.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user", req.UserID).Msg("clearing chat")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Success: true})
}

// limitParam parses a page or list size. Zero and negatives are rejected
// so the limit echoed back is the one applied.
func limitParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errors.New("invalid limit")
	}
	return n, nil
}

func offsetParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid offset")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
