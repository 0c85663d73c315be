package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/tuneweek/internal/listening"
)

type extendedRecord struct {
	TS         string  `json:"ts"`
	MsPlayed   int64   `json:"ms_played"`
	TrackName  *string `json:"master_metadata_track_name"`
	ArtistName *string `json:"master_metadata_album_artist_name"`
	AlbumName  *string `json:"master_metadata_album_album_name"`
	TrackURI   *string `json:"spotify_track_uri"`
}

// ParseExtended converts an extended streaming history export. Records
// without a track, such as podcast episodes, are skipped. The export has
// no artist IDs, so one is derived from the artist name.
func ParseExtended(data []byte, userID string) ([]*listening.Play, int, error) {
	var records []extendedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("decoding extended history: %w", err)
	}

	plays := make([]*listening.Play, 0, len(records))
	for _, r := range records {
		trackID := trackIDFromURI(deref(r.TrackURI))
		if trackID == "" {
			continue
		}
		playedAt, err := parseTime(r.TS)
		if err != nil {
			continue
		}
		artistName := deref(r.ArtistName)
		plays = append(plays, &listening.Play{
			UserID:     userID,
			TrackID:    trackID,
			TrackName:  deref(r.TrackName),
			ArtistID:   ArtistIDFromName(artistName),
			ArtistName: artistName,
			AlbumName:  deref(r.AlbumName),
			PlayedAt:   playedAt,
			DurationMs: max(r.MsPlayed, 0),
		})
	}
	return plays, len(records), nil
}

type recentlyPlayed struct {
	Items []struct {
		PlayedAt string `json:"played_at"`
		Track    *struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			DurationMs int64  `json:"duration_ms"`
			Artists    []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name   string `json:"name"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
		} `json:"track"`
	} `json:"items"`
}

// ParseRecentlyPlayed converts a recently-played API response. The first
// listed artist and the first album image are kept.
func ParseRecentlyPlayed(data []byte, userID string) ([]*listening.Play, int, error) {
	var resp recentlyPlayed
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, 0, fmt.Errorf("decoding recently played: %w", err)
	}

	plays := make([]*listening.Play, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Track == nil || item.Track.ID == "" {
			continue
		}
		playedAt, err := parseTime(item.PlayedAt)
		if err != nil {
			continue
		}
		p := &listening.Play{
			UserID:     userID,
			TrackID:    item.Track.ID,
			TrackName:  item.Track.Name,
			AlbumName:  item.Track.Album.Name,
			PlayedAt:   playedAt,
			DurationMs: max(item.Track.DurationMs, 0),
		}
		if len(item.Track.Artists) > 0 {
			p.ArtistID = item.Track.Artists[0].ID
			p.ArtistName = item.Track.Artists[0].Name
		}
		if len(item.Track.Album.Images) > 0 {
			p.ImageURL = item.Track.Album.Images[0].URL
		}
		plays = append(plays, p)
	}
	return plays, len(resp.Items), nil
}

// ArtistIDFromName derives a stable artist ID for exports that carry only
// names. Names that differ only in case, accents or punctuation share an ID.
func ArtistIDFromName(name string) string {
	key := listening.NormalizeName(name)
	if key == "" {
		return ""
	}
	return "name:" + key
}

func trackIDFromURI(uri string) string {
	const prefix = "spotify:track:"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
