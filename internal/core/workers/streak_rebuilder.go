package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type LogRepository interface {
	ListLogDays(ctx context.Context, userID string) ([]time.Time, error)
}

type StreakRepository interface {
	Upsert(ctx context.Context, streak *domain.MoodStreak) error
	Delete(ctx context.Context, userID string) error
}

type RebuildJob struct {
	UserID string
}

// StreakRebuilder recomputes a user's streak from their full log history.
// It is the repair path: edits, deletions and any failed incremental
// update funnel here, so the stored streak always converges to the logs.
type StreakRebuilder struct {
	logRepo    LogRepository
	streakRepo StreakRepository
	jobs       chan RebuildJob
}

func NewStreakRebuilder(lRepo LogRepository, sRepo StreakRepository) *StreakRebuilder {
	return &StreakRebuilder{
		logRepo:    lRepo,
		streakRepo: sRepo,
		jobs:       make(chan RebuildJob, 100),
	}
}

func (w *StreakRebuilder) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Rebuilder started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Rebuilder shutting down...")
				return
			}
		}
	}()
}

func (w *StreakRebuilder) Enqueue(userID string) {
	select {
	case w.jobs <- RebuildJob{UserID: userID}:
	default:
		log.Printf("Streak Rebuilder queue full! Dropping job for user %s", userID)
	}
}

func (w *StreakRebuilder) processJob(ctx context.Context, job RebuildJob) {
	days, err := w.logRepo.ListLogDays(ctx, job.UserID)
	if err != nil {
		log.Printf("Rebuilder Error fetching log days for %s: %v", job.UserID, err)
		return
	}

	streak := domain.RebuildStreak(job.UserID, days)

	if streak == nil {
		// Last log gone; drop the row so the API serves a zero state.
		if err := w.streakRepo.Delete(ctx, job.UserID); err != nil && !errors.Is(err, domain.ErrStreakNotFound) {
			log.Printf("Rebuilder Failed to clear streak for %s: %v", job.UserID, err)
		}
		return
	}

	if err := w.streakRepo.Upsert(ctx, streak); err != nil {
		log.Printf("Rebuilder Failed to update streak for %s: %v", job.UserID, err)
		return
	}

	log.Printf("Streak rebuilt for %s: Current=%d, Longest=%d", job.UserID, streak.CurrentStreak, streak.LongestStreak)
}
