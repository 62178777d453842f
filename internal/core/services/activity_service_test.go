package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

type ActivityStoreFake struct {
	store         map[string]*domain.Activity
	simulateError error
}

func NewActivityStoreFake() *ActivityStoreFake {
	return &ActivityStoreFake{
		store: make(map[string]*domain.Activity),
	}
}

func (m *ActivityStoreFake) Create(ctx context.Context, activity *domain.Activity) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, existing := range m.store {
		if existing.Name == activity.Name {
			return domain.ErrActivityAlreadyExists
		}
	}
	clone := *activity
	m.store[activity.ID] = &clone
	return nil
}

func (m *ActivityStoreFake) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	activity, ok := m.store[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	clone := *activity
	return &clone, nil
}

func (m *ActivityStoreFake) List(ctx context.Context) ([]*domain.Activity, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.Activity
	for _, activity := range m.store {
		clone := *activity
		list = append(list, &clone)
	}
	return list, nil
}

func (m *ActivityStoreFake) Update(ctx context.Context, activity *domain.Activity) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[activity.ID]; !ok {
		return domain.ErrActivityNotFound
	}
	clone := *activity
	m.store[activity.ID] = &clone
	return nil
}

func (m *ActivityStoreFake) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[id]; !ok {
		return domain.ErrActivityNotFound
	}
	delete(m.store, id)
	return nil
}

var _ domain.ActivityRepository = (*ActivityStoreFake)(nil)

func TestActivityService_CRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Create, update and delete round trip", func(t *testing.T) {
		repo := NewActivityStoreFake()
		svc := services.NewActivityService(repo)

		created, err := svc.Create(ctx, services.ActivityInput{Name: "meditation", Icon: "🧘", SortOrder: 7})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		updated, err := svc.Update(ctx, created.ID, services.ActivityInput{Name: "mindfulness", Icon: "🧘", SortOrder: 7})
		require.NoError(t, err)
		assert.Equal(t, "mindfulness", updated.Name)

		err = svc.Delete(ctx, created.ID)
		require.NoError(t, err)

		_, err = svc.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	})

	t.Run("Fail: Duplicate name rejected", func(t *testing.T) {
		repo := NewActivityStoreFake()
		svc := services.NewActivityService(repo)

		_, err := svc.Create(ctx, services.ActivityInput{Name: "work", Icon: "💼"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, services.ActivityInput{Name: "work", Icon: "🖥️"})

		assert.ErrorIs(t, err, domain.ErrActivityAlreadyExists)
	})

	t.Run("Fail: Empty name blocked before DB", func(t *testing.T) {
		repo := NewActivityStoreFake()
		svc := services.NewActivityService(repo)

		_, err := svc.Create(ctx, services.ActivityInput{Name: "  ", Icon: "💼"})

		assert.ErrorIs(t, err, domain.ErrActivityNameEmpty)
		assert.Empty(t, repo.store)
	})

	t.Run("Fail: Delete non-existent activity", func(t *testing.T) {
		repo := NewActivityStoreFake()
		svc := services.NewActivityService(repo)

		err := svc.Delete(ctx, "ghost-id")

		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	})
}

func TestActivityService_EnsureDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("Seeds the standard activities on an empty catalog", func(t *testing.T) {
		repo := NewActivityStoreFake()
		svc := services.NewActivityService(repo)

		err := svc.EnsureDefaults(ctx)

		require.NoError(t, err)
		list, _ := repo.List(ctx)
		assert.Len(t, list, 6)
	})

	t.Run("Idempotency: Second run changes nothing", func(t *testing.T) {
		repo := NewActivityStoreFake()
		svc := services.NewActivityService(repo)

		require.NoError(t, svc.EnsureDefaults(ctx))
		require.NoError(t, svc.EnsureDefaults(ctx))

		list, _ := repo.List(ctx)
		assert.Len(t, list, 6)
	})
}
