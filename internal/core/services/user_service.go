package services

import (
	"context"
	"fmt"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type UserService struct {
	repo domain.UserRepository
}

func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id, displayName string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.Rename(displayName); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("user service: failed to update profile: %w", err)
	}

	return user, nil
}

// ChangePassword requires the current password before accepting a new one.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(currentPassword); err != nil {
		return domain.ErrInvalidCredentials
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("user service: failed to update password: %w", err)
	}

	return nil
}
