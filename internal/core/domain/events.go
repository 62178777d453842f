package domain

import "context"

// EventPublisher pushes domain events to an external broker. Publishing is
// best-effort: callers log failures and carry on, so implementations must
// never block request handling for long.
type EventPublisher interface {
	PublishLogCreated(ctx context.Context, log *MoodLog, streak *MoodStreak) error
	PublishBadgeAwarded(ctx context.Context, userID string, badge *Badge) error
	Close() error
}
