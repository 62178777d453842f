package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

const (
	EventLogCreated   = "mood_log.created"
	EventBadgeAwarded = "badge.awarded"
)

// envelope is the wire format shared by every event on the topic. Consumers
// switch on EventType before decoding the payload.
type envelope struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type logCreatedPayload struct {
	Log    *domain.MoodLog    `json:"log"`
	Streak *domain.MoodStreak `json:"streak,omitempty"`
}

type badgeAwardedPayload struct {
	UserID string        `json:"user_id"`
	Badge  *domain.Badge `json:"badge"`
}

// KafkaPublisher writes domain events to a single Kafka topic. Messages are
// keyed by user ID so one user's events stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}

	// Async writes report delivery failures here instead of on WriteMessages.
	writer.Completion = func(messages []kafka.Message, err error) {
		if err != nil {
			log.Printf("[EVENTS] Failed to deliver %d message(s): %v", len(messages), err)
		}
	}

	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishLogCreated(ctx context.Context, entry *domain.MoodLog, streak *domain.MoodStreak) error {
	return p.publish(ctx, entry.UserID, newLogCreatedEnvelope(entry, streak))
}

func (p *KafkaPublisher) PublishBadgeAwarded(ctx context.Context, userID string, badge *domain.Badge) error {
	return p.publish(ctx, userID, newBadgeAwardedEnvelope(userID, badge))
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) publish(ctx context.Context, key string, env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", env.EventType, err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  env.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", env.EventType, err)
	}

	return nil
}

func newLogCreatedEnvelope(entry *domain.MoodLog, streak *domain.MoodStreak) envelope {
	return envelope{
		EventID:    uuid.NewString(),
		EventType:  EventLogCreated,
		OccurredAt: time.Now().UTC(),
		Payload:    logCreatedPayload{Log: entry, Streak: streak},
	}
}

func newBadgeAwardedEnvelope(userID string, badge *domain.Badge) envelope {
	return envelope{
		EventID:    uuid.NewString(),
		EventType:  EventBadgeAwarded,
		OccurredAt: time.Now().UTC(),
		Payload:    badgeAwardedPayload{UserID: userID, Badge: badge},
	}
}
