// Package llm provides chat clients for the language model providers
// tuneweek can talk to.
package llm

import (
	"context"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes generation.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// DefaultOptions keeps answers short and a little creative.
var DefaultOptions = Options{
	MaxTokens:   512,
	Temperature: 0.7,
}

// Client defines the interface for LLM providers.
type Client interface {
	// Chat sends messages to the LLM and returns the response.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatJSON sends messages and parses the response as JSON into the provided type.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}
