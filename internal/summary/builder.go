package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/llm"
)

// PayloadLoader builds the chart for one week.
type PayloadLoader interface {
	Load(ctx context.Context, userID string, rng dateutil.WeekRange, artists []listening.Artist) (*chart.Payload, error)
}

// BuildWeekSummaryOptions configures the loader-backed summary builder.
type BuildWeekSummaryOptions struct {
	UserID         string
	WeekOf         time.Time
	Artists        []listening.Artist
	IncludeInsight bool
	Client         llm.Client
}

// BuildWeekSummary loads the requested week and optionally adds insight.
// A zero WeekOf means the current UTC week. The chart payload is returned
// alongside the summary.
func BuildWeekSummary(ctx context.Context, loader PayloadLoader, opts BuildWeekSummaryOptions) (*WeekSummary, *chart.Payload, error) {
	weekOf := opts.WeekOf
	if weekOf.IsZero() {
		weekOf = dateutil.Today(time.Now(), time.UTC)
	}
	rng := dateutil.WeekRangeOf(weekOf)

	payload, err := loader.Load(ctx, opts.UserID, rng, opts.Artists)
	if err != nil {
		return nil, nil, fmt.Errorf("loading week: %w", err)
	}

	s := SummarizeWeek(payload)
	if opts.IncludeInsight {
		if opts.Client == nil {
			return nil, nil, errors.New("model client is required for insight")
		}
		s.Insight, err = Insight(ctx, opts.Client, s, payload)
		if err != nil {
			return nil, nil, err
		}
	}

	return s, payload, nil
}
