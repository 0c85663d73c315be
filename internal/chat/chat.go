// Package chat answers natural-language questions about a user's listening.
package chat

import (
	"context"
	"errors"
	"time"
)

// MaxHistory is the number of messages remembered per user.
const MaxHistory = 10

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrInvalidRequest is returned when a request lacks a user or a message.
var ErrInvalidRequest = errors.New("userId and message required")

// Request is one question from a user.
type Request struct {
	UserID      string `json:"userId"`
	Message     string `json:"message"`
	UserContext string `json:"userContext,omitempty"`
}

// Response is the assistant's answer.
type Response struct {
	Response       string `json:"response"`
	TracksAnalyzed int    `json:"tracksAnalyzed"`
}

// Message is one remembered turn of a conversation.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Backend is the chat surface used by the TUI, CLI and HTTP API.
type Backend interface {
	// Ask answers req using the user's recent plays and conversation.
	Ask(ctx context.Context, req Request) (*Response, error)

	// Clear forgets the user's conversation.
	Clear(ctx context.Context, userID string) error
}

// Memory stores the most recent MaxHistory messages per user.
type Memory interface {
	// History returns the remembered messages, oldest first.
	History(ctx context.Context, userID string) ([]Message, error)

	// Append remembers msg and drops anything beyond MaxHistory.
	Append(ctx context.Context, msg Message) error

	// Clear forgets every message for the user.
	Clear(ctx context.Context, userID string) error
}
