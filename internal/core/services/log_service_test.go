package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
	"github.com/moodpulse/moodpulse-api/internal/core/workers"
)

type MockMoodLogRepo struct {
	mock.Mock
}

func (m *MockMoodLogRepo) Create(ctx context.Context, entry *domain.MoodLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockMoodLogRepo) Update(ctx context.Context, entry *domain.MoodLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockMoodLogRepo) Delete(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockMoodLogRepo) GetByID(ctx context.Context, id string) (*domain.MoodLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoodLog), args.Error(1)
}

func (m *MockMoodLogRepo) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.MoodLog, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MoodLog), args.Error(1)
}

func (m *MockMoodLogRepo) ListLogDays(ctx context.Context, userID string) ([]time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockMoodLogRepo) CountByMoodID(ctx context.Context, moodID string) (int, error) {
	args := m.Called(ctx, moodID)
	return args.Int(0), args.Error(1)
}

type MockMoodCatalog struct {
	mock.Mock
}

func (m *MockMoodCatalog) GetByID(ctx context.Context, id string) (*domain.Mood, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mood), args.Error(1)
}

func (m *MockMoodCatalog) Create(ctx context.Context, mood *domain.Mood) error { return nil }
func (m *MockMoodCatalog) List(ctx context.Context) ([]*domain.Mood, error)    { return nil, nil }
func (m *MockMoodCatalog) Update(ctx context.Context, mood *domain.Mood) error { return nil }
func (m *MockMoodCatalog) Delete(ctx context.Context, id string) error         { return nil }

type MockActivityCatalog struct {
	mock.Mock
}

func (m *MockActivityCatalog) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockActivityCatalog) Create(ctx context.Context, activity *domain.Activity) error { return nil }
func (m *MockActivityCatalog) List(ctx context.Context) ([]*domain.Activity, error)        { return nil, nil }
func (m *MockActivityCatalog) Update(ctx context.Context, activity *domain.Activity) error { return nil }
func (m *MockActivityCatalog) Delete(ctx context.Context, id string) error                 { return nil }

type MockStreakRepo struct {
	mock.Mock
}

func (m *MockStreakRepo) GetByUserID(ctx context.Context, userID string) (*domain.MoodStreak, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MoodStreak), args.Error(1)
}

func (m *MockStreakRepo) Upsert(ctx context.Context, streak *domain.MoodStreak) error {
	args := m.Called(ctx, streak)
	return args.Error(0)
}

func (m *MockStreakRepo) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStreakRepo) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockBadgeRepo struct {
	mock.Mock
}

func (m *MockBadgeRepo) Create(ctx context.Context, badge *domain.Badge) error {
	args := m.Called(ctx, badge)
	return args.Error(0)
}

func (m *MockBadgeRepo) List(ctx context.Context) ([]*domain.Badge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Badge), args.Error(1)
}

func (m *MockBadgeRepo) Award(ctx context.Context, userID, badgeID string, awardedAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, badgeID, awardedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBadgeRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.UserBadge, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserBadge), args.Error(1)
}

type fakePublisher struct {
	mu         sync.Mutex
	logCreated int
	awarded    []string
	err        error
}

func (f *fakePublisher) PublishLogCreated(_ context.Context, _ *domain.MoodLog, _ *domain.MoodStreak) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCreated++
	return f.err
}

func (f *fakePublisher) PublishBadgeAwarded(_ context.Context, _ string, badge *domain.Badge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awarded = append(f.awarded, badge.Code)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func getTestRebuilder() *workers.StreakRebuilder {
	return workers.NewStreakRebuilder(nil, nil)
}

type logServiceFixture struct {
	logRepo      *MockMoodLogRepo
	moodRepo     *MockMoodCatalog
	activityRepo *MockActivityCatalog
	streakRepo   *MockStreakRepo
	badgeRepo    *MockBadgeRepo
	publisher    *fakePublisher
	svc          *services.LogService
}

func newLogServiceFixture() *logServiceFixture {
	f := &logServiceFixture{
		logRepo:      new(MockMoodLogRepo),
		moodRepo:     new(MockMoodCatalog),
		activityRepo: new(MockActivityCatalog),
		streakRepo:   new(MockStreakRepo),
		badgeRepo:    new(MockBadgeRepo),
		publisher:    &fakePublisher{},
	}
	badges := services.NewBadgeService(f.badgeRepo, f.publisher)
	f.svc = services.NewLogService(f.logRepo, f.moodRepo, f.activityRepo, f.streakRepo, badges, getTestRebuilder(), f.publisher)
	return f
}

func testMood() *domain.Mood {
	return &domain.Mood{ID: "mood-good", Name: "good", Emoji: "🙂", Color: "#8BC34A"}
}

func TestLogService_Create(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	now := time.Now().UTC()

	t.Run("Success: Should persist log, start streak AND award first badge", func(t *testing.T) {
		f := newLogServiceFixture()

		firstLog, err := domain.NewBadge("first_log", "First Step", "Logged a mood for the first time", "🌱", 1)
		require.NoError(t, err)

		f.moodRepo.On("GetByID", ctx, "mood-good").Return(testMood(), nil)
		f.logRepo.On("Create", ctx, mock.MatchedBy(func(l *domain.MoodLog) bool {
			return l.UserID == uid && l.MoodID == "mood-good"
		})).Return(nil)
		f.streakRepo.On("GetByUserID", ctx, uid).Return(nil, domain.ErrStreakNotFound)
		f.streakRepo.On("Upsert", ctx, mock.MatchedBy(func(s *domain.MoodStreak) bool {
			return s.UserID == uid && s.CurrentStreak == 1 && s.IsActive
		})).Return(nil)
		f.badgeRepo.On("List", ctx).Return([]*domain.Badge{firstLog}, nil)
		f.badgeRepo.On("Award", ctx, uid, firstLog.ID, mock.Anything).Return(true, nil)

		result, err := f.svc.Create(ctx, services.CreateLogInput{
			UserID:   uid,
			MoodID:   "mood-good",
			Note:     "feeling fine",
			LoggedAt: now,
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "good", result.Log.MoodName)
		assert.Equal(t, "🙂", result.Log.MoodEmoji)
		require.NotNil(t, result.Streak)
		assert.Equal(t, 1, result.Streak.CurrentStreak)
		require.Len(t, result.NewBadges, 1)
		assert.Equal(t, "first_log", result.NewBadges[0].Code)
		assert.Equal(t, 1, f.publisher.logCreated)
		assert.Equal(t, []string{"first_log"}, f.publisher.awarded)

		f.logRepo.AssertExpectations(t)
		f.streakRepo.AssertExpectations(t)
	})

	t.Run("Success: Consecutive day extends the streak", func(t *testing.T) {
		f := newLogServiceFixture()

		yesterday := now.AddDate(0, 0, -1)
		existing := &domain.MoodStreak{
			UserID:        uid,
			CurrentStreak: 2,
			LongestStreak: 2,
			LastLogDate:   &yesterday,
			IsActive:      true,
		}

		f.moodRepo.On("GetByID", ctx, "mood-good").Return(testMood(), nil)
		f.logRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.streakRepo.On("GetByUserID", ctx, uid).Return(existing, nil)
		f.streakRepo.On("Upsert", ctx, mock.MatchedBy(func(s *domain.MoodStreak) bool {
			return s.CurrentStreak == 3 && s.LongestStreak == 3
		})).Return(nil)
		f.badgeRepo.On("List", ctx).Return([]*domain.Badge{}, nil)

		result, err := f.svc.Create(ctx, services.CreateLogInput{
			UserID:   uid,
			MoodID:   "mood-good",
			LoggedAt: now,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, result.Streak.CurrentStreak)
		f.streakRepo.AssertExpectations(t)
	})

	t.Run("Success: Activities are validated before persisting", func(t *testing.T) {
		f := newLogServiceFixture()

		f.moodRepo.On("GetByID", ctx, "mood-good").Return(testMood(), nil)
		f.activityRepo.On("GetByID", ctx, "act-work").Return(&domain.Activity{ID: "act-work", Name: "work"}, nil)
		f.logRepo.On("Create", ctx, mock.MatchedBy(func(l *domain.MoodLog) bool {
			return len(l.ActivityIDs) == 1 && l.ActivityIDs[0] == "act-work"
		})).Return(nil)
		f.streakRepo.On("GetByUserID", ctx, uid).Return(nil, domain.ErrStreakNotFound)
		f.streakRepo.On("Upsert", ctx, mock.Anything).Return(nil)
		f.badgeRepo.On("List", ctx).Return([]*domain.Badge{}, nil)

		_, err := f.svc.Create(ctx, services.CreateLogInput{
			UserID:      uid,
			MoodID:      "mood-good",
			ActivityIDs: []string{"act-work"},
			LoggedAt:    now,
		})

		require.NoError(t, err)
		f.activityRepo.AssertExpectations(t)
	})

	t.Run("Fail: Unknown mood blocks creation", func(t *testing.T) {
		f := newLogServiceFixture()

		f.moodRepo.On("GetByID", ctx, "ghost-mood").Return(nil, domain.ErrMoodNotFound)

		result, err := f.svc.Create(ctx, services.CreateLogInput{
			UserID:   uid,
			MoodID:   "ghost-mood",
			LoggedAt: now,
		})

		assert.ErrorIs(t, err, domain.ErrMoodNotFound)
		assert.Nil(t, result)
		f.logRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Unknown activity blocks creation", func(t *testing.T) {
		f := newLogServiceFixture()

		f.moodRepo.On("GetByID", ctx, "mood-good").Return(testMood(), nil)
		f.activityRepo.On("GetByID", ctx, "ghost-act").Return(nil, domain.ErrActivityNotFound)

		_, err := f.svc.Create(ctx, services.CreateLogInput{
			UserID:      uid,
			MoodID:      "mood-good",
			ActivityIDs: []string{"ghost-act"},
			LoggedAt:    now,
		})

		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
		f.logRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Validation error blocked BEFORE any repository call", func(t *testing.T) {
		f := newLogServiceFixture()

		_, err := f.svc.Create(ctx, services.CreateLogInput{
			UserID:   uid,
			MoodID:   "",
			LoggedAt: now,
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mood_id is required")
		f.moodRepo.AssertNotCalled(t, "GetByID")
		f.logRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Resilience: Streak persistence failure must not fail the request", func(t *testing.T) {
		f := newLogServiceFixture()

		f.moodRepo.On("GetByID", ctx, "mood-good").Return(testMood(), nil)
		f.logRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.streakRepo.On("GetByUserID", ctx, uid).Return(nil, domain.ErrStreakNotFound)
		f.streakRepo.On("Upsert", ctx, mock.Anything).Return(errors.New("connection reset"))

		result, err := f.svc.Create(ctx, services.CreateLogInput{
			UserID:   uid,
			MoodID:   "mood-good",
			LoggedAt: now,
		})

		require.NoError(t, err)
		require.NotNil(t, result.Log)
		assert.Nil(t, result.Streak)
		assert.Empty(t, result.NewBadges)
	})

	t.Run("Resilience: Badge failure must not fail the request", func(t *testing.T) {
		f := newLogServiceFixture()

		f.moodRepo.On("GetByID", ctx, "mood-good").Return(testMood(), nil)
		f.logRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.streakRepo.On("GetByUserID", ctx, uid).Return(nil, domain.ErrStreakNotFound)
		f.streakRepo.On("Upsert", ctx, mock.Anything).Return(nil)
		f.badgeRepo.On("List", ctx).Return(nil, errors.New("badges table missing"))

		result, err := f.svc.Create(ctx, services.CreateLogInput{
			UserID:   uid,
			MoodID:   "mood-good",
			LoggedAt: now,
		})

		require.NoError(t, err)
		require.NotNil(t, result.Streak)
		assert.Empty(t, result.NewBadges)
	})
}

func TestLogService_Update(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	logID := "log-xyz"
	now := time.Now().UTC()

	t.Run("Success: Should amend fields and bump version", func(t *testing.T) {
		f := newLogServiceFixture()

		existing := &domain.MoodLog{
			ID:       logID,
			UserID:   uid,
			MoodID:   "mood-good",
			LoggedAt: now,
			Version:  1,
		}

		f.logRepo.On("GetByID", ctx, logID).Return(existing, nil)
		f.moodRepo.On("GetByID", ctx, "mood-bad").Return(&domain.Mood{ID: "mood-bad", Name: "bad"}, nil)
		f.logRepo.On("Update", ctx, mock.MatchedBy(func(l *domain.MoodLog) bool {
			return l.Version == 2 && l.MoodID == "mood-bad" && l.Note == "rough afternoon"
		})).Return(nil)

		updated, err := f.svc.Update(ctx, services.UpdateLogInput{
			ID:      logID,
			UserID:  uid,
			MoodID:  "mood-bad",
			Note:    "rough afternoon",
			Version: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "mood-bad", updated.MoodID)
		f.logRepo.AssertExpectations(t)
	})

	t.Run("Concurrency: Should fail if version conflict", func(t *testing.T) {
		f := newLogServiceFixture()

		existing := &domain.MoodLog{ID: logID, UserID: uid, MoodID: "mood-good", LoggedAt: now, Version: 2}
		f.logRepo.On("GetByID", ctx, logID).Return(existing, nil)

		_, err := f.svc.Update(ctx, services.UpdateLogInput{
			ID:      logID,
			UserID:  uid,
			MoodID:  "mood-good",
			Version: 1,
		})

		assert.ErrorIs(t, err, domain.ErrLogConflict)
		f.logRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Security: Should fail if updating log of another user (IDOR)", func(t *testing.T) {
		f := newLogServiceFixture()

		existing := &domain.MoodLog{ID: logID, UserID: "victim", MoodID: "mood-good", LoggedAt: now}
		f.logRepo.On("GetByID", ctx, logID).Return(existing, nil)

		_, err := f.svc.Update(ctx, services.UpdateLogInput{
			ID:     logID,
			UserID: "attacker",
			MoodID: "mood-good",
		})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		f.logRepo.AssertNotCalled(t, "Update")
	})
}

func TestLogService_Delete(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	logID := "log-del"

	t.Run("Success: Should delete owned log", func(t *testing.T) {
		f := newLogServiceFixture()

		f.logRepo.On("GetByID", ctx, logID).Return(&domain.MoodLog{ID: logID, UserID: uid}, nil)
		f.logRepo.On("Delete", ctx, logID, uid).Return(nil)

		err := f.svc.Delete(ctx, logID, uid)

		assert.NoError(t, err)
		f.logRepo.AssertExpectations(t)
	})

	t.Run("Security: Should return Unauthorized if user mismatch", func(t *testing.T) {
		f := newLogServiceFixture()

		f.logRepo.On("GetByID", ctx, logID).Return(&domain.MoodLog{ID: logID, UserID: "owner"}, nil)

		err := f.svc.Delete(ctx, logID, "attacker")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		f.logRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("Fail: Should return NotFound if log doesn't exist", func(t *testing.T) {
		f := newLogServiceFixture()

		f.logRepo.On("GetByID", ctx, logID).Return(nil, domain.ErrLogNotFound)

		err := f.svc.Delete(ctx, logID, uid)

		assert.ErrorIs(t, err, domain.ErrLogNotFound)
	})
}

func TestLogService_Streak(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"

	t.Run("Success: Should return stored streak", func(t *testing.T) {
		f := newLogServiceFixture()

		stored := &domain.MoodStreak{UserID: uid, CurrentStreak: 5, LongestStreak: 9, IsActive: true}
		f.streakRepo.On("GetByUserID", ctx, uid).Return(stored, nil)

		streak, err := f.svc.Streak(ctx, uid)

		require.NoError(t, err)
		assert.Equal(t, 5, streak.CurrentStreak)
	})

	t.Run("Edge Case: User without logs gets a zero streak, not an error", func(t *testing.T) {
		f := newLogServiceFixture()

		f.streakRepo.On("GetByUserID", ctx, uid).Return(nil, domain.ErrStreakNotFound)

		streak, err := f.svc.Streak(ctx, uid)

		require.NoError(t, err)
		require.NotNil(t, streak)
		assert.Equal(t, uid, streak.UserID)
		assert.Equal(t, 0, streak.CurrentStreak)
		assert.Equal(t, 0, streak.LongestStreak)
		assert.False(t, streak.IsActive)
	})
}

func TestLogService_GetByID(t *testing.T) {
	ctx := context.Background()
	uid := "user-123"
	logID := "log-read"

	t.Run("Success: Should return log if owned by user", func(t *testing.T) {
		f := newLogServiceFixture()

		expected := &domain.MoodLog{ID: logID, UserID: uid, MoodName: "good"}
		f.logRepo.On("GetByID", ctx, logID).Return(expected, nil)

		result, err := f.svc.GetByID(ctx, logID, uid)

		require.NoError(t, err)
		assert.Equal(t, expected, result)
	})

	t.Run("Security: Should prevent reading other users' logs", func(t *testing.T) {
		f := newLogServiceFixture()

		found := &domain.MoodLog{ID: logID, UserID: "other-user"}
		f.logRepo.On("GetByID", ctx, logID).Return(found, nil)

		result, err := f.svc.GetByID(ctx, logID, uid)

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, result)
	})
}
