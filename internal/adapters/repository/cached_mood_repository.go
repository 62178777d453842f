package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

var _ domain.MoodRepository = (*CachedMoodRepository)(nil)

const moodCatalogKey = "moods:catalog"

// CachedMoodRepository keeps the mood catalog in Redis. The catalog is
// global, small and read on every log write, so one key covers it. Redis
// being down degrades to plain database reads.
type CachedMoodRepository struct {
	next  domain.MoodRepository
	cache *redis.Client
}

func NewCachedMoodRepository(next domain.MoodRepository, cache *redis.Client) *CachedMoodRepository {
	return &CachedMoodRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedMoodRepository) invalidate(ctx context.Context) {
	if err := r.cache.Del(ctx, moodCatalogKey).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate mood catalog: %v", err)
	}
}

func (r *CachedMoodRepository) List(ctx context.Context) ([]*domain.Mood, error) {
	val, err := r.cache.Get(ctx, moodCatalogKey).Result()
	if err == nil {
		var moods []*domain.Mood
		if err := json.Unmarshal([]byte(val), &moods); err == nil {
			return moods, nil
		}

		log.Printf("[CACHE] Corrupted mood catalog, cleaning up key")
		r.cache.Del(ctx, moodCatalogKey)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	moods, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(moods); err == nil {
		if setErr := r.cache.Set(ctx, moodCatalogKey, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return moods, nil
}

func (r *CachedMoodRepository) GetByID(ctx context.Context, id string) (*domain.Mood, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedMoodRepository) Create(ctx context.Context, mood *domain.Mood) error {
	if err := r.next.Create(ctx, mood); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMoodRepository) Update(ctx context.Context, mood *domain.Mood) error {
	if err := r.next.Update(ctx, mood); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedMoodRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}
