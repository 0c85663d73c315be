package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/summary"
)

// topJSON is the --json output of the top command.
type topJSON struct {
	Range         dateutil.WeekRange `json:"range"`
	Plays         int                `json:"plays"`
	Minutes       float64            `json:"minutes"`
	UniqueArtists int                `json:"uniqueArtists"`
	TopTracks     []listening.Ranked `json:"topTracks"`
	TopArtists    []listening.Ranked `json:"topArtists"`
}

func (a *App) topCmd() *cobra.Command {
	var weekOf string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the week's most played songs and artists",
		Long: `Rank songs and artists by play count for a Monday to Sunday week.
For the current week today's minutes and song count are shown too.

Example:
  tuneweek top
  tuneweek top --week last-week --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			today := dateutil.Today(time.Now(), a.config.Location())
			day := today
			if weekOf != "" {
				var err error
				day, err = dateutil.ParseRelativeDate(weekOf, today)
				if err != nil {
					return fmt.Errorf("invalid --week: %w", err)
				}
			}

			h, err := summary.BuildHighlights(cmd.Context(), a.store, a.config.User.ID, dateutil.WeekRangeOf(day), today, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeTopJSON(out, h)
			}
			PrintHighlights(out, h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&weekOf, "week", "w", "", "Any day of the week to rank: YYYY-MM-DD, today, yesterday, last-week, monday, last-monday")
	cmd.Flags().IntVarP(&limit, "limit", "n", listening.DefaultTopLimit, "Number of songs and artists to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the rankings as JSON")
	return cmd
}

func writeTopJSON(w io.Writer, h *summary.Highlights) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(topJSON{
		Range:         h.Range,
		Plays:         h.TotalPlays(),
		Minutes:       h.TotalMinutes(),
		UniqueArtists: h.UniqueArtists,
		TopTracks:     h.TopTracks,
		TopArtists:    h.TopArtists,
	})
}
