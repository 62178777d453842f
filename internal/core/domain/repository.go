package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrStreakNotFound = errors.New("streak not found")
	ErrUnauthorized   = errors.New("unauthorized access to resource")
)

type UserRepository interface {
	// Create persists a new user account.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by its (lowercased) email address.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update modifies the state of an existing user.
	Update(ctx context.Context, user *User) error
}

type MoodRepository interface {
	// Create persists a new mood catalog entry.
	Create(ctx context.Context, mood *Mood) error

	// GetByID retrieves a mood by its unique identifier.
	GetByID(ctx context.Context, id string) (*Mood, error)

	// List retrieves the whole catalog ordered by sort_order.
	List(ctx context.Context) ([]*Mood, error)

	// Update modifies an existing mood.
	Update(ctx context.Context, mood *Mood) error

	// Delete removes a mood. Implementations must refuse when logs still
	// reference it (ErrMoodInUse).
	Delete(ctx context.Context, id string) error
}

type ActivityRepository interface {
	// Create persists a new activity catalog entry.
	Create(ctx context.Context, activity *Activity) error

	// GetByID retrieves an activity by its unique identifier.
	GetByID(ctx context.Context, id string) (*Activity, error)

	// List retrieves the whole catalog ordered by sort_order.
	List(ctx context.Context) ([]*Activity, error)

	// Update modifies an existing activity.
	Update(ctx context.Context, activity *Activity) error

	// Delete permanently removes an activity.
	Delete(ctx context.Context, id string) error
}

type BadgeRepository interface {
	// Create persists a new badge definition.
	Create(ctx context.Context, badge *Badge) error

	// List retrieves all badge definitions ordered by streak_target.
	List(ctx context.Context) ([]*Badge, error)

	// Award records a badge for a user. Awarding the same badge twice is a
	// silent no-op; the returned bool tells whether a new award happened.
	Award(ctx context.Context, userID, badgeID string, awardedAt time.Time) (bool, error)

	// ListByUserID retrieves the user's awards, badge definitions included.
	ListByUserID(ctx context.Context, userID string) ([]*UserBadge, error)
}

type StreakRepository interface {
	// GetByUserID retrieves the user's streak state.
	GetByUserID(ctx context.Context, userID string) (*MoodStreak, error)

	// Upsert writes the full streak state, inserting the row on first use.
	Upsert(ctx context.Context, streak *MoodStreak) error

	// Delete removes the user's streak row (used when the last log is gone).
	Delete(ctx context.Context, userID string) error

	// ListUserIDs returns every user currently holding a streak row.
	ListUserIDs(ctx context.Context) ([]string, error)
}
