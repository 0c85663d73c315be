package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tuneweek/internal/chat"
)

func (a *App) chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat MESSAGE...",
		Short: "Ask the assistant about your listening",
		Long: `Ask a question about your listening history.

The assistant sees your most recent plays and remembers the conversation
between calls. Use "tuneweek chat clear" to start over.

Example:
  tuneweek chat what did I listen to most on Sunday?`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.requireChat()
			if err != nil {
				return err
			}
			return askOnce(cmd.Context(), cmd.OutOrStdout(), backend, chat.Request{
				UserID:  a.config.User.ID,
				Message: strings.Join(args, " "),
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := a.requireChat()
			if err != nil {
				return err
			}
			if err := backend.Clear(cmd.Context(), a.config.User.ID); err != nil {
				return fmt.Errorf("clearing conversation: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Conversation cleared.")
			return nil
		},
	})
	return cmd
}

func (a *App) requireChat() (chat.Backend, error) {
	if err := a.ensureStore(); err != nil {
		return nil, err
	}
	backend, _, err := a.chatBackend()
	if err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("chat needs an LLM provider; run `tuneweek config`")
	}
	return backend, nil
}

func askOnce(ctx context.Context, out io.Writer, backend chat.Backend, req chat.Request) error {
	resp, err := backend.Ask(ctx, req)
	if err != nil {
		return fmt.Errorf("asking assistant: %w", err)
	}
	PrintInsightWrapped(out, resp.Response, min(100, termWidth()-2))
	_, _ = fmt.Fprintf(out, "\n  %s\n", formatMuted(fmt.Sprintf("%d tracks analyzed", resp.TracksAnalyzed)))
	return nil
}
