package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events as JSON keyed by user ID, so one user's events
// stay ordered on a single partition.
type Kafka struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafka creates a synchronous writer for topic.
func NewKafka(brokers []string, topic string, logger zerolog.Logger) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafka(w, logger), nil
}

func newKafka(w messageWriter, logger zerolog.Logger) *Kafka {
	return &Kafka{
		writer: w,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// PublishImported implements Publisher.
func (k *Kafka) PublishImported(ctx context.Context, events ...PlaysImported) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding event for %s: %w", e.UserID, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(e.UserID), Value: value})
	}

	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	k.logger.Debug().Int("events", len(msgs)).Msg("published import events")
	return nil
}

// Close flushes and closes the writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}

// New returns a Kafka publisher when brokers are configured and Nop
// otherwise.
func New(brokers []string, topic string, logger zerolog.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return Nop{}, nil
	}
	return NewKafka(brokers, topic, logger)
}
