package ui

import (
	"github.com/spf13/cobra"

	"github.com/javiermolinar/tuneweek/internal/api"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the listening API over HTTP",
		Long: `Start the HTTP API used by web dashboards.

Routes serve week charts, artist search, listening history and, when an
LLM provider is configured, the chat assistant. The server stops on
Ctrl+C, letting in-flight requests finish.

Example:
  tuneweek serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			loader, err := a.newLoader()
			if err != nil {
				return err
			}
			backend, _, err := a.chatBackend()
			if err != nil {
				a.logger.Warn().Err(err).Msg("chat routes disabled")
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}

			srv := api.New(api.Options{
				Data:           a.store,
				Loader:         loader,
				Chat:           backend,
				AllowedOrigins: a.config.Server.AllowedOrigins,
				Logger:         a.logger,
			})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
