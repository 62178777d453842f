package events

import (
	"context"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

// NopPublisher drops every event. It stands in when no broker is configured,
// so the services never need a nil check.
type NopPublisher struct{}

func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

func (NopPublisher) PublishLogCreated(ctx context.Context, entry *domain.MoodLog, streak *domain.MoodStreak) error {
	return nil
}

func (NopPublisher) PublishBadgeAwarded(ctx context.Context, userID string, badge *domain.Badge) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
