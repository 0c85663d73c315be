package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the users with stored listening history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			users, err := a.store.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				_, _ = fmt.Fprintln(out, "No users yet.")
				return nil
			}
			PrintUsers(out, users)
			return nil
		},
	}
}
