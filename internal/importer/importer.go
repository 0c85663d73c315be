// Package importer loads Spotify listening exports into the store.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/events"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// Format identifies an export layout.
type Format int

const (
	FormatUnknown Format = iota
	// FormatExtended is the "extended streaming history" export: a JSON
	// array of stream records.
	FormatExtended
	// FormatRecentlyPlayed is a saved recently-played API response.
	FormatRecentlyPlayed
)

func (f Format) String() string {
	switch f {
	case FormatExtended:
		return "extended streaming history"
	case FormatRecentlyPlayed:
		return "recently played"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat is returned for files that match no supported layout.
var ErrUnknownFormat = errors.New("unrecognized export format")

// Saver stores plays and reports how many were new.
type Saver interface {
	SavePlays(ctx context.Context, plays []*listening.Play) (int, error)
}

// Result counts one import.
type Result struct {
	Format  Format
	Read    int
	Saved   int
	Skipped int
	// Earliest and Latest bound the plays read. Zero when none were read.
	Earliest time.Time
	Latest   time.Time
}

// Importer parses exports and saves their plays.
type Importer struct {
	store     Saver
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates an importer. A nil publisher publishes nothing.
func New(store Saver, publisher events.Publisher, logger zerolog.Logger) *Importer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Importer{
		store:     store,
		publisher: publisher,
		logger:    logger.With().Str("component", "importer").Logger(),
		now:       time.Now,
	}
}

// ImportFile imports one export file for userID.
func (i *Importer) ImportFile(ctx context.Context, userID, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := i.Import(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return res, nil
}

// Import reads an export from r, saves its plays and publishes a
// PlaysImported event when anything new was stored.
func (i *Importer) Import(ctx context.Context, userID string, r io.Reader) (*Result, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, listening.ErrEmptyUserID
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	format := DetectFormat(data)
	var (
		plays []*listening.Play
		read  int
	)
	switch format {
	case FormatExtended:
		plays, read, err = ParseExtended(data, userID)
	case FormatRecentlyPlayed:
		plays, read, err = ParseRecentlyPlayed(data, userID)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}

	saved, err := i.store.SavePlays(ctx, plays)
	if err != nil {
		return nil, fmt.Errorf("saving plays: %w", err)
	}

	res := &Result{
		Format:  format,
		Read:    read,
		Saved:   saved,
		Skipped: read - saved,
	}
	for _, p := range plays {
		if res.Earliest.IsZero() || p.PlayedAt.Before(res.Earliest) {
			res.Earliest = p.PlayedAt
		}
		if p.PlayedAt.After(res.Latest) {
			res.Latest = p.PlayedAt
		}
	}

	i.logger.Info().
		Str("user", userID).
		Str("format", format.String()).
		Int("read", res.Read).
		Int("saved", res.Saved).
		Int("skipped", res.Skipped).
		Msg("import finished")

	if saved > 0 {
		i.publish(ctx, userID, res)
	}
	return res, nil
}

func (i *Importer) publish(ctx context.Context, userID string, res *Result) {
	err := i.publisher.PublishImported(ctx, events.PlaysImported{
		UserID:     userID,
		Saved:      res.Saved,
		Skipped:    res.Skipped,
		Earliest:   res.Earliest,
		Latest:     res.Latest,
		ImportedAt: i.now().UTC(),
	})
	if err != nil {
		i.logger.Warn().Err(err).Str("user", userID).Msg("publishing import event")
	}
}

// DetectFormat inspects the top-level JSON shape.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	switch trimmed[0] {
	case '[':
		return FormatExtended
	case '{':
		if bytes.Contains(trimmed, []byte(`"items"`)) {
			return FormatRecentlyPlayed
		}
	}
	return FormatUnknown
}
