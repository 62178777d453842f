package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLogNotFound = errors.New("mood log not found")
	ErrLogConflict = errors.New("mood log version conflict")
)

type MoodLogRepository interface {
	// Create persists a new log to the storage.
	Create(ctx context.Context, log *MoodLog) error

	// Update modifies an existing log.
	// Implementations must handle Optimistic Locking (version check) to prevent data races.
	Update(ctx context.Context, log *MoodLog) error

	// Delete performs a Soft Delete on the log.
	// It requires userID to ensure the user actually owns the log being deleted.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single active (non-deleted) log by its ID, mood
	// attributes joined in.
	GetByID(ctx context.Context, id string) (*MoodLog, error)

	// ListByUserID retrieves the user's logs within a date range, newest
	// first, mood attributes joined in. This feeds calendars and charts.
	ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*MoodLog, error)

	// ListLogDays returns the distinct calendar days (midnight UTC) the
	// user has active logs on. This is what streak rebuilds consume.
	ListLogDays(ctx context.Context, userID string) ([]time.Time, error)

	// CountByMoodID counts active logs referencing a mood, across all
	// users. Guards catalog deletions.
	CountByMoodID(ctx context.Context, moodID string) (int, error)
}
