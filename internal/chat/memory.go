package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemory is a process-local Memory.
type InMemory struct {
	mu            sync.Mutex
	conversations map[string][]Message
	now           func() time.Time
}

// NewInMemory creates an empty in-process memory.
func NewInMemory() *InMemory {
	return &InMemory{
		conversations: make(map[string][]Message),
		now:           time.Now,
	}
}

// History returns a copy of the user's messages, oldest first.
func (m *InMemory) History(_ context.Context, userID string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.conversations[userID]
	out := make([]Message, len(history))
	copy(out, history)
	return out, nil
}

// Append adds msg and keeps only the latest MaxHistory messages.
func (m *InMemory) Append(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg = Stamp(msg, m.now)
	history := append(m.conversations[msg.UserID], msg)
	if len(history) > MaxHistory {
		history = append([]Message(nil), history[len(history)-MaxHistory:]...)
	}
	m.conversations[msg.UserID] = history
	return nil
}

// Clear removes the user's conversation.
func (m *InMemory) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, userID)
	return nil
}

// Stamp fills in a missing ID and timestamp.
func Stamp(msg Message, now func() time.Time) Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now().UTC()
	}
	return msg
}
