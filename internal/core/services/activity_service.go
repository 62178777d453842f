package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type ActivityService struct {
	repo domain.ActivityRepository
}

func NewActivityService(repo domain.ActivityRepository) *ActivityService {
	return &ActivityService{
		repo: repo,
	}
}

type ActivityInput struct {
	Name      string
	Icon      string
	SortOrder int
}

func (s *ActivityService) Create(ctx context.Context, input ActivityInput) (*domain.Activity, error) {
	activity, err := domain.NewActivity(input.Name, input.Icon, input.SortOrder)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

func (s *ActivityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ActivityService) List(ctx context.Context) ([]*domain.Activity, error) {
	return s.repo.List(ctx)
}

func (s *ActivityService) Update(ctx context.Context, id string, input ActivityInput) (*domain.Activity, error) {
	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := activity.Update(input.Name, input.Icon, input.SortOrder); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}

	return activity, nil
}

func (s *ActivityService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

var defaultActivities = []ActivityInput{
	{Name: "work", Icon: "💼", SortOrder: 1},
	{Name: "exercise", Icon: "🏃", SortOrder: 2},
	{Name: "family", Icon: "🏠", SortOrder: 3},
	{Name: "friends", Icon: "🎉", SortOrder: 4},
	{Name: "reading", Icon: "📚", SortOrder: 5},
	{Name: "sleep", Icon: "😴", SortOrder: 6},
}

func (s *ActivityService) EnsureDefaults(ctx context.Context) error {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("activity service: failed to inspect catalog: %w", err)
	}
	if len(activities) > 0 {
		return nil
	}

	for _, input := range defaultActivities {
		if _, err := s.Create(ctx, input); err != nil {
			if errors.Is(err, domain.ErrActivityAlreadyExists) {
				continue
			}
			return fmt.Errorf("activity service: failed to seed %q: %w", input.Name, err)
		}
	}

	log.Printf("Seeded %d default activities", len(defaultActivities))
	return nil
}
