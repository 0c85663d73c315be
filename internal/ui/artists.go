package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) artistsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "artists [query]",
		Short: "Search the artists in your listening history",
		Long: `List artists whose name matches the query, closest matches first.

The names printed here are what the week command's --artist flag and the
dashboard's artist search match against.

Example:
  tuneweek artists radio`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			query := strings.TrimSpace(args[0])
			if query == "" {
				return fmt.Errorf("empty query")
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			artists, err := a.store.FetchArtistSuggestions(cmd.Context(), a.config.User.ID, query, limit)
			if err != nil {
				return fmt.Errorf("searching artists: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(artists) == 0 {
				_, _ = fmt.Fprintf(out, "No artists matching %q.\n", query)
				return nil
			}
			PrintArtists(out, artists)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of artists")
	return cmd
}
