package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) historyCmd() *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your most recent plays",
		Long: `List stored plays, newest first, in the configured time zone.

Example:
  tuneweek history --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if limit <= 0 || offset < 0 {
				return fmt.Errorf("--limit must be positive and --offset not negative")
			}

			plays, err := a.store.RecentPlays(cmd.Context(), a.config.User.ID, limit, offset)
			if err != nil {
				return fmt.Errorf("listing plays: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(plays) == 0 {
				_, _ = fmt.Fprintln(out, "No plays stored. Import your history with `tuneweek import`.")
				return nil
			}
			PrintPlays(out, plays, a.config.Location())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of plays to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Skip this many of the newest plays")
	return cmd
}
