package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/workers"
)

const streakShards = 64

type LogService struct {
	repo         domain.MoodLogRepository
	moodRepo     domain.MoodRepository
	activityRepo domain.ActivityRepository
	streakRepo   domain.StreakRepository
	badges       *BadgeService
	rebuilder    *workers.StreakRebuilder
	events       domain.EventPublisher

	// streakLocks serializes the read-advance-write cycle per user. Two
	// logs arriving together on a day boundary must fold into the streak
	// one at a time or an increment can be lost.
	streakLocks [streakShards]sync.Mutex
}

func NewLogService(
	repo domain.MoodLogRepository,
	moodRepo domain.MoodRepository,
	activityRepo domain.ActivityRepository,
	streakRepo domain.StreakRepository,
	badges *BadgeService,
	rebuilder *workers.StreakRebuilder,
	events domain.EventPublisher,
) *LogService {
	return &LogService{
		repo:         repo,
		moodRepo:     moodRepo,
		activityRepo: activityRepo,
		streakRepo:   streakRepo,
		badges:       badges,
		rebuilder:    rebuilder,
		events:       events,
	}
}

type CreateLogInput struct {
	UserID      string
	MoodID      string
	ActivityIDs []string
	Note        string
	LoggedAt    time.Time
}

type UpdateLogInput struct {
	ID          string
	UserID      string
	MoodID      string
	ActivityIDs []string
	Note        string
	LoggedAt    time.Time
	Version     int
}

// CreateLogResult bundles everything a client wants to show right after
// logging: the stored log, the streak it produced and any badge that
// popped on the way.
type CreateLogResult struct {
	Log       *domain.MoodLog    `json:"log"`
	Streak    *domain.MoodStreak `json:"streak,omitempty"`
	NewBadges []*domain.Badge    `json:"new_badges,omitempty"`
}

func (s *LogService) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.streakLocks[h.Sum32()%streakShards]
}

func (s *LogService) Create(ctx context.Context, input CreateLogInput) (*CreateLogResult, error) {
	entry, err := domain.NewMoodLog(input.UserID, input.MoodID, input.ActivityIDs, input.Note, input.LoggedAt)
	if err != nil {
		return nil, err
	}

	mood, err := s.moodRepo.GetByID(ctx, entry.MoodID)
	if err != nil {
		return nil, err
	}

	for _, id := range entry.ActivityIDs {
		if _, err := s.activityRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	entry.MoodName = mood.Name
	entry.MoodEmoji = mood.Emoji
	entry.MoodColor = mood.Color

	result := &CreateLogResult{Log: entry}

	// The log is durable from here on. Streak, badges and events are
	// best-effort follow-ups: failures are logged and repaired by the
	// rebuilder rather than failing the request.
	streak, err := s.advanceStreak(ctx, input.UserID, entry.LoggedAt)
	if err != nil {
		log.Printf("[ERROR] streak update failed for user %s: %v", input.UserID, err)
		s.rebuilder.Enqueue(input.UserID)
		return result, nil
	}
	result.Streak = streak

	newBadges, err := s.badges.EvaluateStreak(ctx, input.UserID, streak)
	if err != nil {
		log.Printf("[ERROR] badge evaluation failed for user %s: %v", input.UserID, err)
	}
	result.NewBadges = newBadges

	if err := s.events.PublishLogCreated(ctx, entry, streak); err != nil {
		log.Printf("[EVENTS] log.created publish failed for user %s: %v", input.UserID, err)
	}

	return result, nil
}

func (s *LogService) advanceStreak(ctx context.Context, userID string, loggedAt time.Time) (*domain.MoodStreak, error) {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.streakRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrStreakNotFound) {
		return nil, fmt.Errorf("log service: failed to load streak: %w", err)
	}

	updated := domain.AdvanceStreak(existing, userID, loggedAt)

	if err := s.streakRepo.Upsert(ctx, updated); err != nil {
		return nil, fmt.Errorf("log service: failed to persist streak: %w", err)
	}

	return updated, nil
}

func (s *LogService) GetByID(ctx context.Context, id string, userID string) (*domain.MoodLog, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return entry, nil
}

func (s *LogService) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.MoodLog, error) {
	return s.repo.ListByUserID(ctx, userID, from, to)
}

func (s *LogService) Update(ctx context.Context, input UpdateLogInput) (*domain.MoodLog, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, domain.ErrLogConflict
	}

	if input.MoodID != existing.MoodID {
		if _, err := s.moodRepo.GetByID(ctx, input.MoodID); err != nil {
			return nil, err
		}
	}
	for _, id := range input.ActivityIDs {
		if _, err := s.activityRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := existing.Amend(input.MoodID, input.ActivityIDs, input.Note, input.LoggedAt); err != nil {
		return nil, err
	}

	existing.Version++

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	// The log may have moved to another day; recompute from scratch.
	s.rebuilder.Enqueue(input.UserID)

	return existing, nil
}

func (s *LogService) Delete(ctx context.Context, id string, userID string) error {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if entry.UserID != userID {
		return domain.ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.rebuilder.Enqueue(userID)

	return nil
}

// Streak returns the user's streak state. A user who never logged gets a
// zero-value state rather than an error.
func (s *LogService) Streak(ctx context.Context, userID string) (*domain.MoodStreak, error) {
	streak, err := s.streakRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrStreakNotFound) {
			return &domain.MoodStreak{UserID: userID}, nil
		}
		return nil, err
	}
	return streak, nil
}
