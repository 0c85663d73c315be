package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
	"github.com/javiermolinar/tuneweek/internal/events"
	"github.com/javiermolinar/tuneweek/internal/importer"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// importStore is what an import writes to.
type importStore interface {
	importer.Saver
	UpsertUser(ctx context.Context, u *listening.User) error
	GetUser(ctx context.Context, id string) (*listening.User, error)
}

func (a *App) importCmd() *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import streaming history exports",
		Long: `Import Spotify streaming history into the database.

Both the extended streaming history (Streaming_History_Audio_*.json) and
the recently played API response are recognized. Plays already stored
are skipped, so importing the same file twice is harmless.

When Kafka brokers are configured, each import that stores new plays
publishes a plays-imported event.

Example:
  tuneweek import ~/Downloads/Spotify/Streaming_History_Audio_*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			paths := make([]string, 0, len(args))
			for _, arg := range args {
				path, err := resolvePath(arg)
				if err != nil {
					return err
				}
				if err := checkFile(path); err != nil {
					return err
				}
				paths = append(paths, path)
			}

			publisher, err := events.New(a.config.Events.Brokers, a.config.Events.Topic, a.logger)
			if err != nil {
				return fmt.Errorf("connecting to event brokers: %w", err)
			}
			defer func() { _ = publisher.Close() }()

			imp := importer.New(a.store, publisher, a.logger)
			return importFiles(cmd.Context(), cmd.OutOrStdout(), a.store, imp, a.config.User.ID, displayName, paths, a.logger)
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "Display name to store for the user")
	return cmd
}

func importFiles(ctx context.Context, out io.Writer, store importStore, imp *importer.Importer, userID, displayName string, paths []string, logger zerolog.Logger) error {
	if err := ensureUser(ctx, store, userID, displayName); err != nil {
		return err
	}

	var saved, skipped int
	for _, path := range paths {
		res, err := imp.ImportFile(ctx, userID, path)
		if err != nil {
			return err
		}
		saved += res.Saved
		skipped += res.Skipped
		logger.Info().
			Str("path", path).
			Stringer("format", res.Format).
			Int("read", res.Read).
			Int("saved", res.Saved).
			Msg("export imported")

		_, _ = fmt.Fprintf(out, "%s: %d plays read, %d new (%s)\n",
			filepath.Base(path), res.Read, res.Saved, res.Format)
		if !res.Earliest.IsZero() {
			_, _ = fmt.Fprintf(out, "  %s\n", formatMuted(fmt.Sprintf("%s to %s",
				dateutil.FormatDate(res.Earliest), dateutil.FormatDate(res.Latest))))
		}
	}

	_, _ = fmt.Fprintf(out, "Imported %s new plays", formatStats(fmt.Sprint(saved)))
	if skipped > 0 {
		_, _ = fmt.Fprintf(out, ", skipped %d", skipped)
	}
	_, _ = fmt.Fprintln(out)
	return nil
}

// ensureUser creates the user on first import and updates the display
// name when one is given.
func ensureUser(ctx context.Context, store importStore, userID, displayName string) error {
	existing, err := store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}
	if existing != nil && (displayName == "" || existing.DisplayName == displayName) {
		return nil
	}

	u := &listening.User{ID: userID, DisplayName: displayName, UpdatedAt: time.Now()}
	if existing != nil {
		u.ProfilePicURL = existing.ProfilePicURL
		u.CreatedAt = existing.CreatedAt
	} else {
		u.CreatedAt = u.UpdatedAt
	}
	if err := store.UpsertUser(ctx, u); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("export does not exist: %s", path)
		}
		return fmt.Errorf("checking export: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("export path is a directory: %s", path)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
