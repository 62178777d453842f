package services

import (
	"context"
	"fmt"
	"time"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type StatsService struct {
	logRepo domain.MoodLogRepository
}

func NewStatsService(logRepo domain.MoodLogRepository) *StatsService {
	return &StatsService{logRepo: logRepo}
}

type BreakdownResult struct {
	Window  domain.PeriodWindow `json:"window"`
	Buckets []domain.LogBucket  `json:"buckets"`
}

type SummaryResult struct {
	Window  domain.PeriodWindow  `json:"window"`
	Summary domain.PeriodSummary `json:"summary"`
}

// Breakdown distributes the user's logs for one period across its
// canonical buckets (hours of the day, days of the week, days of the
// month). A zero anchor means "the period containing today".
func (s *StatsService) Breakdown(ctx context.Context, userID string, kind domain.PeriodKind, anchor time.Time) (*BreakdownResult, error) {
	window, logs, err := s.fetchWindow(ctx, userID, kind, anchor)
	if err != nil {
		return nil, err
	}

	return &BreakdownResult{
		Window:  window,
		Buckets: domain.BucketLogs(logs, window),
	}, nil
}

// Summary aggregates mood frequencies over one period.
func (s *StatsService) Summary(ctx context.Context, userID string, kind domain.PeriodKind, anchor time.Time) (*SummaryResult, error) {
	window, logs, err := s.fetchWindow(ctx, userID, kind, anchor)
	if err != nil {
		return nil, err
	}

	return &SummaryResult{
		Window:  window,
		Summary: domain.SummarizeLogs(logs, window),
	}, nil
}

func (s *StatsService) fetchWindow(ctx context.Context, userID string, kind domain.PeriodKind, anchor time.Time) (domain.PeriodWindow, []*domain.MoodLog, error) {
	if anchor.IsZero() {
		anchor = time.Now().UTC()
	}

	window, err := domain.WindowFor(kind, anchor)
	if err != nil {
		return domain.PeriodWindow{}, nil, err
	}

	// The window's End is a day, not an instant; stretch it to the last
	// nanosecond so logs late on the final day are included.
	to := window.End.Add(24*time.Hour - time.Nanosecond)

	logs, err := s.logRepo.ListByUserID(ctx, userID, window.Start, to)
	if err != nil {
		return domain.PeriodWindow{}, nil, fmt.Errorf("stats service: failed to load logs: %w", err)
	}

	// The repository returns newest first; bucketing preserves input
	// order, so flip to chronological.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}

	return window, logs, nil
}
