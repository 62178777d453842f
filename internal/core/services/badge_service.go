package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type BadgeService struct {
	repo   domain.BadgeRepository
	events domain.EventPublisher
}

func NewBadgeService(repo domain.BadgeRepository, events domain.EventPublisher) *BadgeService {
	return &BadgeService{
		repo:   repo,
		events: events,
	}
}

func (s *BadgeService) List(ctx context.Context) ([]*domain.Badge, error) {
	return s.repo.List(ctx)
}

func (s *BadgeService) ListByUserID(ctx context.Context, userID string) ([]*domain.UserBadge, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// EvaluateStreak awards every badge the streak has earned and not yet been
// granted, returning only the new ones. Awarding is idempotent, so calling
// this after every log is safe.
func (s *BadgeService) EvaluateStreak(ctx context.Context, userID string, streak *domain.MoodStreak) ([]*domain.Badge, error) {
	badges, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("badge service: failed to list badges: %w", err)
	}

	now := time.Now().UTC()
	var awarded []*domain.Badge

	for _, badge := range badges {
		if !badge.EarnedBy(streak) {
			continue
		}

		isNew, err := s.repo.Award(ctx, userID, badge.ID, now)
		if err != nil {
			return awarded, fmt.Errorf("badge service: failed to award %q: %w", badge.Code, err)
		}
		if !isNew {
			continue
		}

		awarded = append(awarded, badge)

		if err := s.events.PublishBadgeAwarded(ctx, userID, badge); err != nil {
			log.Printf("[EVENTS] badge.awarded publish failed for %s: %v", badge.Code, err)
		}
	}

	return awarded, nil
}

var defaultBadges = []struct {
	code        string
	name        string
	description string
	icon        string
	target      int
}{
	{"first_log", "First Step", "Logged a mood for the first time", "🌱", 1},
	{"streak_3", "Warming Up", "Logged three days in a row", "✨", 3},
	{"streak_7", "One Week Strong", "Logged seven days in a row", "🔥", 7},
	{"streak_14", "Fortnight", "Logged fourteen days in a row", "🌟", 14},
	{"streak_30", "Monthly Habit", "Logged thirty days in a row", "🏆", 30},
	{"streak_100", "Century Club", "Logged one hundred days in a row", "💎", 100},
}

func (s *BadgeService) EnsureDefaults(ctx context.Context) error {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("badge service: failed to inspect badges: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, d := range defaultBadges {
		badge, err := domain.NewBadge(d.code, d.name, d.description, d.icon, d.target)
		if err != nil {
			return fmt.Errorf("badge service: invalid default %q: %w", d.code, err)
		}
		if err := s.repo.Create(ctx, badge); err != nil {
			if errors.Is(err, domain.ErrBadgeAlreadyExists) {
				continue
			}
			return fmt.Errorf("badge service: failed to seed %q: %w", d.code, err)
		}
	}

	log.Printf("Seeded %d default badges", len(defaultBadges))
	return nil
}
