package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tuneweek/internal/chart"
	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/summary"
)

// weekJSON is the --json output of the week command.
type weekJSON struct {
	Chart   *chart.Payload `json:"chart"`
	Summary []string       `json:"summary"`
	Insight string         `json:"insight,omitempty"`
}

func (a *App) weekCmd() *cobra.Command {
	var weekOf string
	var artists []string
	var insight bool
	var asJSON bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show minutes listened per day for a week",
		Long: `Display minutes listened on each day of a Monday to Sunday week.

Without --artist the chart shows all listening. Each --artist adds one
row for that artist, matched by name against your history.

Example:
  tuneweek week
  tuneweek week --week last-monday --artist Radiohead --artist Björk
  tuneweek week --week 2025-01-15 --insight`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor || asJSON {
				DisableColor()
			}
			ctx := cmd.Context()
			if err := a.ensureStore(); err != nil {
				return err
			}
			loader, err := a.newLoader()
			if err != nil {
				return err
			}

			today := loader.Today()
			day := today
			if weekOf != "" {
				day, err = dateutil.ParseRelativeDate(weekOf, today)
				if err != nil {
					return fmt.Errorf("invalid --week: %w", err)
				}
			}

			selected, err := a.resolveArtists(ctx, artists)
			if err != nil {
				return err
			}

			opts := summary.BuildWeekSummaryOptions{
				UserID:         a.config.User.ID,
				WeekOf:         day,
				Artists:        selected,
				IncludeInsight: insight,
			}
			if insight {
				client, err := a.llmClient()
				if err != nil {
					return err
				}
				if client == nil {
					return fmt.Errorf("--insight needs an LLM provider in the config")
				}
				opts.Client = client
			}

			s, payload, err := summary.BuildWeekSummary(ctx, loader, opts)
			if err != nil {
				return fmt.Errorf("building week summary: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeWeekJSON(out, payload, s)
			}
			printWeekReport(out, payload, s, today)
			return nil
		},
	}

	cmd.Flags().StringVarP(&weekOf, "week", "w", "", "Any day of the week to show: YYYY-MM-DD, today, yesterday, last-week, monday, last-monday")
	cmd.Flags().StringArrayVarP(&artists, "artist", "a", nil, "Compare an artist (repeatable)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the LLM for a short commentary")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the chart payload as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// resolveArtists turns the --artist queries into known artists.
func (a *App) resolveArtists(ctx context.Context, queries []string) ([]listening.Artist, error) {
	var out []listening.Artist
	seen := make(map[string]bool, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		suggestions, err := a.store.FetchArtistSuggestions(ctx, a.config.User.ID, q, 10)
		if err != nil {
			return nil, fmt.Errorf("searching artist %q: %w", q, err)
		}
		artist, ok := pickArtist(suggestions, q)
		if !ok {
			return nil, fmt.Errorf("no artist matching %q in your history", q)
		}
		if seen[artist.ID] {
			continue
		}
		seen[artist.ID] = true
		out = append(out, artist)
	}
	return out, nil
}

// pickArtist prefers an exact name match over the best-ranked suggestion.
func pickArtist(suggestions []listening.Artist, query string) (listening.Artist, bool) {
	if len(suggestions) == 0 {
		return listening.Artist{}, false
	}
	want := listening.NormalizeName(query)
	for _, s := range suggestions {
		if listening.NormalizeName(s.Name) == want {
			return s, true
		}
	}
	return suggestions[0], true
}

func writeWeekJSON(w io.Writer, p *chart.Payload, s *summary.WeekSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(weekJSON{
		Chart:   p,
		Summary: s.Lines(),
		Insight: s.Insight,
	})
}

func printWeekReport(w io.Writer, p *chart.Payload, s *summary.WeekSummary, today time.Time) {
	PrintWeek(w, p, today)
	PrintSummary(w, s)

	if s.Insight != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "  %s\n", formatHeader("INSIGHT"))
		PrintInsightWrapped(w, s.Insight, min(72, termWidth()-2))
	}
	_, _ = fmt.Fprintln(w)
}
