package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type MoodService struct {
	repo    domain.MoodRepository
	logRepo domain.MoodLogRepository
}

func NewMoodService(repo domain.MoodRepository, logRepo domain.MoodLogRepository) *MoodService {
	return &MoodService{
		repo:    repo,
		logRepo: logRepo,
	}
}

type MoodInput struct {
	Name      string
	Emoji     string
	Color     string
	SortOrder int
}

func (s *MoodService) Create(ctx context.Context, input MoodInput) (*domain.Mood, error) {
	mood, err := domain.NewMood(input.Name, input.Emoji, input.Color, input.SortOrder)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, mood); err != nil {
		return nil, err
	}

	return mood, nil
}

func (s *MoodService) GetByID(ctx context.Context, id string) (*domain.Mood, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MoodService) List(ctx context.Context) ([]*domain.Mood, error) {
	return s.repo.List(ctx)
}

func (s *MoodService) Update(ctx context.Context, id string, input MoodInput) (*domain.Mood, error) {
	mood, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mood.Update(input.Name, input.Emoji, input.Color, input.SortOrder); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, mood); err != nil {
		return nil, err
	}

	return mood, nil
}

// Delete refuses to remove a mood that logs still reference; historical
// entries must keep resolving their display attributes.
func (s *MoodService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.logRepo.CountByMoodID(ctx, id)
	if err != nil {
		return fmt.Errorf("mood service: failed to count log references: %w", err)
	}
	if count > 0 {
		return domain.ErrMoodInUse
	}

	return s.repo.Delete(ctx, id)
}

var defaultMoods = []MoodInput{
	{Name: "amazing", Emoji: "😄", Color: "#4CAF50", SortOrder: 1},
	{Name: "good", Emoji: "🙂", Color: "#8BC34A", SortOrder: 2},
	{Name: "okay", Emoji: "😐", Color: "#FFC107", SortOrder: 3},
	{Name: "bad", Emoji: "🙁", Color: "#FF9800", SortOrder: 4},
	{Name: "terrible", Emoji: "😢", Color: "#F44336", SortOrder: 5},
}

// EnsureDefaults seeds the catalog on an empty database so a fresh install
// is usable without any manual setup.
func (s *MoodService) EnsureDefaults(ctx context.Context) error {
	moods, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("mood service: failed to inspect catalog: %w", err)
	}
	if len(moods) > 0 {
		return nil
	}

	for _, input := range defaultMoods {
		if _, err := s.Create(ctx, input); err != nil {
			if errors.Is(err, domain.ErrMoodAlreadyExists) {
				continue
			}
			return fmt.Errorf("mood service: failed to seed %q: %w", input.Name, err)
		}
	}

	log.Printf("Seeded %d default moods", len(defaultMoods))
	return nil
}
