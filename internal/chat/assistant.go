package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/tuneweek/internal/listening"
	"github.com/javiermolinar/tuneweek/internal/llm"
)

// PlaySource provides the plays the assistant talks about.
type PlaySource interface {
	RecentPlays(ctx context.Context, userID string, limit, offset int) ([]*listening.Play, error)
}

// Assistant is the LLM-backed Backend.
type Assistant struct {
	client llm.Client
	plays  PlaySource
	memory Memory
	logger zerolog.Logger
	now    func() time.Time
}

// NewAssistant creates an assistant. A nil memory keeps conversations in
// process.
func NewAssistant(client llm.Client, plays PlaySource, memory Memory, logger zerolog.Logger) *Assistant {
	if memory == nil {
		memory = NewInMemory()
	}
	return &Assistant{
		client: client,
		plays:  plays,
		memory: memory,
		logger: logger.With().Str("component", "chat").Logger(),
		now:    time.Now,
	}
}

// Ask answers one question and remembers the exchange.
func (a *Assistant) Ask(ctx context.Context, req Request) (*Response, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == "" || req.Message == "" {
		return nil, ErrInvalidRequest
	}

	plays, err := a.plays.RecentPlays(ctx, req.UserID, RecentTracks, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching listening data: %w", err)
	}

	history, err := a.memory.History(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	a.logger.Debug().
		Str("user", req.UserID).
		Int("tracks", len(plays)).
		Int("history", len(history)).
		Msg("asking model")

	answer, err := a.client.Chat(ctx, BuildMessages(req, plays, history))
	if err != nil {
		return nil, fmt.Errorf("asking model: %w", err)
	}
	answer = strings.TrimSpace(answer)

	for _, m := range []Message{
		{UserID: req.UserID, Role: RoleUser, Content: req.Message},
		{UserID: req.UserID, Role: RoleAssistant, Content: answer},
	} {
		if err := a.memory.Append(ctx, Stamp(m, a.now)); err != nil {
			return nil, fmt.Errorf("saving conversation: %w", err)
		}
	}

	return &Response{Response: answer, TracksAnalyzed: len(plays)}, nil
}

// Clear forgets the user's conversation.
func (a *Assistant) Clear(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidRequest
	}
	if err := a.memory.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clearing conversation: %w", err)
	}
	a.logger.Debug().Str("user", userID).Msg("conversation cleared")
	return nil
}
