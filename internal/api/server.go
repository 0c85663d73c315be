// Package api serves weekly charts, artist search and chat over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/chat"
	"github.com/javiermolinar/tuneweek/internal/dashboard"
	"github.com/javiermolinar/tuneweek/internal/listening"
)

// DefaultHistoryLimit is the page size for /history without a limit.
const DefaultHistoryLimit = 100

// Data is the storage the API reads from.
type Data interface {
	listening.Repository
	listening.Ranker
	RecentPlays(ctx context.Context, userID string, limit, offset int) ([]*listening.Play, error)
	LookupArtist(ctx context.Context, userID, artistID string) (*listening.Artist, error)
}

// Options configures a Server.
type Options struct {
	Data   Data
	Loader *dashboard.Loader
	// Chat answers /chat and /clear. Nil disables both routes.
	Chat           chat.Backend
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	data           Data
	loader         *dashboard.Loader
	chat           chat.Backend
	allowedOrigins []string
	logger         zerolog.Logger
}

// New creates a server.
func New(opts Options) *Server {
	return &Server{
		data:           opts.Data,
		loader:         opts.Loader,
		chat:           opts.Chat,
		allowedOrigins: opts.AllowedOrigins,
		logger:         opts.Logger.With().Str("component", "api").Logger(),
	}
}

// Router registers every route.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	users := r.PathPrefix("/api/users/{userID}").Subrouter()
	users.HandleFunc("/week", s.week).Methods(http.MethodGet)
	users.HandleFunc("/earliest", s.earliest).Methods(http.MethodGet)
	users.HandleFunc("/artists", s.artists).Methods(http.MethodGet)
	users.HandleFunc("/history", s.history).Methods(http.MethodGet)
	users.HandleFunc("/top-artists", s.topArtists).Methods(http.MethodGet)
	users.HandleFunc("/top-tracks", s.topTracks).Methods(http.MethodGet)
	users.HandleFunc("/stats", s.stats).Methods(http.MethodGet)

	if s.chat != nil {
		r.HandleFunc("/chat", s.ask).Methods(http.MethodPost, http.MethodOptions)
		r.HandleFunc("/clear", s.clear).Methods(http.MethodPost, http.MethodOptions)
	}

	return r
}

// Handler wraps the router with CORS and access logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()

	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)

	h = handlers.LoggingHandler(accessLog{s.logger}, h)
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLog{s.logger}))(h)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute, // chat answers can be slow
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

type accessLog struct {
	logger zerolog.Logger
}

func (a accessLog) Write(p []byte) (int, error) {
	a.logger.Debug().Msg(string(trimNewline(p)))
	return len(p), nil
}

type recoveryLog struct {
	logger zerolog.Logger
}

func (r recoveryLog) Println(v ...any) {
	r.logger.Error().Msg(fmt.Sprint(v...))
}

func trimNewline(p []byte) []byte {
	for len(p) > 0 && (p[len(p)-1] == '\n' || p[len(p)-1] == '\r') {
		p = p[:len(p)-1]
	}
	return p
}
