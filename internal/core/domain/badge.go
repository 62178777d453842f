package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBadgeNotFound      = errors.New("badge not found")
	ErrBadgeAlreadyExists = errors.New("a badge with this code already exists")
	ErrBadgeCodeEmpty     = errors.New("badge code cannot be empty")
	ErrBadgeNameEmpty     = errors.New("badge name cannot be empty")
	ErrInvalidTarget      = errors.New("streak target must be positive")
)

// Badge is a streak milestone. A badge is earned once the user's current
// or longest streak reaches StreakTarget days.
type Badge struct {
	ID           string    `json:"id" db:"id"`
	Code         string    `json:"code" db:"code"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Icon         string    `json:"icon" db:"icon"`
	StreakTarget int       `json:"streak_target" db:"streak_target"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func NewBadge(code, name, description, icon string, streakTarget int) (*Badge, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	if code == "" {
		return nil, ErrBadgeCodeEmpty
	}
	if name == "" {
		return nil, ErrBadgeNameEmpty
	}
	if streakTarget < 1 {
		return nil, ErrInvalidTarget
	}

	now := time.Now().UTC()
	return &Badge{
		ID:           uuid.NewString(),
		Code:         code,
		Name:         name,
		Description:  strings.TrimSpace(description),
		Icon:         icon,
		StreakTarget: streakTarget,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// EarnedBy reports whether the streak has ever reached this badge's target.
func (b *Badge) EarnedBy(streak *MoodStreak) bool {
	if streak == nil {
		return false
	}
	return streak.CurrentStreak >= b.StreakTarget || streak.LongestStreak >= b.StreakTarget
}

// UserBadge records a single award. The (user, badge) pair is unique so
// re-evaluating a streak never awards twice.
type UserBadge struct {
	UserID    string    `json:"user_id" db:"user_id"`
	BadgeID   string    `json:"badge_id" db:"badge_id"`
	AwardedAt time.Time `json:"awarded_at" db:"awarded_at"`

	Badge *Badge `json:"badge,omitempty" db:"-"`
}
