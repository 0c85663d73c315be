package chart

import (
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// DefaultLabel names the single series drawn when no dimension is selected.
const DefaultLabel = "Minutes Listened"

// Weekdays are the chart labels. They never depend on locale.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// SeriesRequest asks for one series built from its own event set.
type SeriesRequest struct {
	Label    string
	ArtistID string
	Events   []listening.Event
}

// Series is one plotted line.
type Series struct {
	Label      string `json:"label"`
	ArtistID   string `json:"artistId,omitempty"`
	Points     Points `json:"points"`
	ColorIndex int    `json:"colorIndex"`
	Color      string `json:"color"`
}

// Payload is the chart handed to renderers. It is never mutated after
// Compose returns; every update builds a new one.
type Payload struct {
	Labels      [7]string          `json:"labels"`
	Series      []Series           `json:"series"`
	Range       dateutil.WeekRange `json:"range"`
	Unavailable bool               `json:"unavailable"`
}

// Compositor merges per-dimension series into one payload.
type Compositor struct {
	// Today returns the reference date for current-week truncation.
	// Nil means the current UTC date.
	Today func() time.Time
}

// NewCompositor creates a compositor with the given clock.
func NewCompositor(today func() time.Time) *Compositor {
	return &Compositor{Today: today}
}

func (c *Compositor) today() time.Time {
	if c == nil || c.Today == nil {
		return dateutil.Today(time.Now(), time.UTC)
	}
	return dateutil.Normalize(c.Today())
}

// Compose builds one series per request, in request order. With no
// requests it builds a single DefaultLabel series from defaults. Colors
// follow request position, not label or data order.
func (c *Compositor) Compose(rng dateutil.WeekRange, defaults []listening.Event, requests []SeriesRequest) (*Payload, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	if len(requests) == 0 {
		requests = []SeriesRequest{{Label: DefaultLabel, Events: defaults}}
	}

	opts := BuildOptions{Today: c.today()}
	series := make([]Series, 0, len(requests))
	for i, req := range requests {
		points, err := Build(req.Events, rng, opts)
		if err != nil {
			return nil, err
		}
		series = append(series, Series{
			Label:      requestLabel(req),
			ArtistID:   req.ArtistID,
			Points:     points,
			ColorIndex: i,
			Color:      ColorFor(i),
		})
	}

	return &Payload{
		Labels: Weekdays,
		Series: series,
		Range:  rng,
	}, nil
}

func requestLabel(req SeriesRequest) string {
	switch {
	case req.Label != "":
		return req.Label
	case req.ArtistID != "":
		return req.ArtistID
	default:
		return DefaultLabel
	}
}

// ZeroPayload is the fallback for a range that could not be built: one
// all-zero series per label, or a single DefaultLabel series.
func ZeroPayload(rng dateutil.WeekRange, labels ...string) *Payload {
	if len(labels) == 0 {
		labels = []string{DefaultLabel}
	}
	series := make([]Series, 0, len(labels))
	for i, label := range labels {
		series = append(series, Series{
			Label:      label,
			Points:     Zero(),
			ColorIndex: i,
			Color:      ColorFor(i),
		})
	}
	return &Payload{Labels: Weekdays, Series: series, Range: rng}
}

// UnavailablePayload signals that data could not be fetched for rng.
func UnavailablePayload(rng dateutil.WeekRange) *Payload {
	return &Payload{
		Labels:      Weekdays,
		Series:      []Series{},
		Range:       rng,
		Unavailable: true,
	}
}

// Max returns the largest point across all series, or zero.
func (p *Payload) Max() float64 {
	var max float64
	for _, s := range p.Series {
		for _, v := range s.Points {
			if v != nil && *v > max {
				max = *v
			}
		}
	}
	return max
}
