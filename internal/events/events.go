// Package events publishes notifications about imported listening data.
package events

import (
	"context"
	"time"
)

// DefaultTopic receives PlaysImported events.
const DefaultTopic = "tuneweek.plays-imported"

// PlaysImported announces that new plays were stored for a user.
type PlaysImported struct {
	UserID     string    `json:"userId"`
	Saved      int       `json:"saved"`
	Skipped    int       `json:"skipped"`
	Earliest   time.Time `json:"earliest"`
	Latest     time.Time `json:"latest"`
	ImportedAt time.Time `json:"importedAt"`
}

// Publisher delivers import events.
type Publisher interface {
	PublishImported(ctx context.Context, events ...PlaysImported) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

// PublishImported implements Publisher.
func (Nop) PublishImported(context.Context, ...PlaysImported) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }
