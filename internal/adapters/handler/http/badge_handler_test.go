package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodpulse/moodpulse-api/internal/adapters/events"
	adapterHTTP "github.com/moodpulse/moodpulse-api/internal/adapters/handler/http"
	"github.com/moodpulse/moodpulse-api/internal/adapters/handler/http/middleware"
	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

func setupBadgeRouter() (*gin.Engine, *MockBadgeStore) {
	gin.SetMode(gin.TestMode)

	store := NewMockBadgeStore()
	svc := services.NewBadgeService(store, events.NewNopPublisher())
	handler := adapterHTTP.NewBadgeHandler(svc)

	r := gin.New()

	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r, store
}

func seedBadge(t *testing.T, store *MockBadgeStore, code string, target int) *domain.Badge {
	t.Helper()
	badge, err := domain.NewBadge(code, "Badge "+code, "", "🏅", target)
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), badge))
	return badge
}

func TestListBadges(t *testing.T) {
	t.Run("Success: catalog ordered by streak target", func(t *testing.T) {
		router, store := setupBadgeRouter()
		seedBadge(t, store, "streak_7", 7)
		seedBadge(t, store, "first_log", 1)

		req, _ := http.NewRequest("GET", "/api/v1/badges", nil)
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var list []domain.Badge
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 2)
		assert.Equal(t, "first_log", list[0].Code)
		assert.Equal(t, "streak_7", list[1].Code)
	})
}

func TestListEarnedBadges(t *testing.T) {
	t.Run("Success: returns only own awards with badge joined", func(t *testing.T) {
		router, store := setupBadgeRouter()
		first := seedBadge(t, store, "first_log", 1)
		week := seedBadge(t, store, "streak_7", 7)

		now := time.Now().UTC()
		_, err := store.Award(context.Background(), "user-1", first.ID, now)
		require.NoError(t, err)
		_, err = store.Award(context.Background(), "user-2", week.ID, now)
		require.NoError(t, err)

		req, _ := http.NewRequest("GET", "/api/v1/badges/earned", nil)
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var list []domain.UserBadge
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "user-1", list[0].UserID)
		require.NotNil(t, list[0].Badge)
		assert.Equal(t, "first_log", list[0].Badge.Code)
	})

	t.Run("Success: empty list for a user with no awards", func(t *testing.T) {
		router, store := setupBadgeRouter()
		seedBadge(t, store, "first_log", 1)

		req, _ := http.NewRequest("GET", "/api/v1/badges/earned", nil)
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
