package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

var _ domain.MoodLogRepository = (*InMemoryLogRepository)(nil)

// InMemoryLogRepository mirrors the Postgres implementation's semantics
// (soft delete, optimistic locking) for tests and local runs without a
// database.
type InMemoryLogRepository struct {
	store map[string]*domain.MoodLog

	mu sync.RWMutex
}

func NewInMemoryLogRepository() *InMemoryLogRepository {
	return &InMemoryLogRepository{
		store: make(map[string]*domain.MoodLog),
	}
}

func (r *InMemoryLogRepository) Create(ctx context.Context, entry *domain.MoodLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryLogRepository) GetByID(ctx context.Context, id string) (*domain.MoodLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[id]
	if !ok || entry.DeletedAt != nil {
		return nil, domain.ErrLogNotFound
	}

	clone := *entry
	return &clone, nil
}

func (r *InMemoryLogRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.MoodLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []*domain.MoodLog{}
	for _, entry := range r.store {
		if entry.UserID != userID || entry.DeletedAt != nil {
			continue
		}
		if entry.LoggedAt.Before(from) || entry.LoggedAt.After(to) {
			continue
		}
		clone := *entry
		entries = append(entries, &clone)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoggedAt.After(entries[j].LoggedAt)
	})

	return entries, nil
}

func (r *InMemoryLogRepository) Update(ctx context.Context, entry *domain.MoodLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[entry.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrLogNotFound
	}

	if stored.Version != entry.Version-1 {
		return domain.ErrLogConflict
	}

	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryLogRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[id]
	if !ok || stored.DeletedAt != nil || stored.UserID != userID {
		return domain.ErrLogNotFound
	}

	now := time.Now().UTC()
	stored.DeletedAt = &now
	stored.UpdatedAt = now
	stored.Version++
	return nil
}

func (r *InMemoryLogRepository) ListLogDays(ctx context.Context, userID string) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[time.Time]bool)
	for _, entry := range r.store {
		if entry.UserID != userID || entry.DeletedAt != nil {
			continue
		}
		seen[entry.LogDay()] = true
	}

	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	return days, nil
}

func (r *InMemoryLogRepository) CountByMoodID(ctx context.Context, moodID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, entry := range r.store {
		if entry.MoodID == moodID && entry.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}
