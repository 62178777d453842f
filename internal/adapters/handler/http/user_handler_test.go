package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/moodpulse/moodpulse-api/internal/adapters/handler/http/middleware"
	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

func setupUserRouter() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockUserRepository)
	svc := services.NewUserService(mockRepo)
	handler := NewUserHandler(svc)

	router := gin.New()

	router.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, mockRepo
}

func TestUserHandler_GetProfile(t *testing.T) {
	t.Run("Success: 200 with own profile", func(t *testing.T) {
		router, mockRepo := setupUserRouter()

		user := testUserWithPassword(t, "me@moodpulse.app", "MyOwnPassword1!")
		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("X-User-ID", user.ID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.Email)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("Fail: 404 when the account vanished", func(t *testing.T) {
		router, mockRepo := setupUserRouter()

		mockRepo.On("GetByID", mock.Anything, "gone-user").Return(nil, domain.ErrUserNotFound)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("X-User-ID", "gone-user")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	t.Run("Success: 200 with the new display name", func(t *testing.T) {
		router, mockRepo := setupUserRouter()

		user := testUserWithPassword(t, "me@moodpulse.app", "MyOwnPassword1!")
		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		body, _ := json.Marshal(map[string]string{"display_name": "Fresh Name"})

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/me", bytes.NewBuffer(body))
		req.Header.Set("X-User-ID", user.ID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Fresh Name")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Fail: 400 when the display name is too long", func(t *testing.T) {
		router, mockRepo := setupUserRouter()

		user := testUserWithPassword(t, "me@moodpulse.app", "MyOwnPassword1!")
		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		body, _ := json.Marshal(map[string]string{"display_name": strings.Repeat("x", 51)})

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/me", bytes.NewBuffer(body))
		req.Header.Set("X-User-ID", user.ID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Fail: 400 when the display name is missing", func(t *testing.T) {
		router, mockRepo := setupUserRouter()

		body, _ := json.Marshal(map[string]string{})

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/me", bytes.NewBuffer(body))
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "GetByID")
	})
}

func TestUserHandler_ChangePassword(t *testing.T) {
	t.Run("Success: 204 No Content", func(t *testing.T) {
		router, mockRepo := setupUserRouter()

		user := testUserWithPassword(t, "me@moodpulse.app", "TheOldPassword1!")
		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		body, _ := json.Marshal(map[string]string{
			"current_password": "TheOldPassword1!",
			"new_password":     "TheNewPassword1!",
		})

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/me/password", bytes.NewBuffer(body))
		req.Header.Set("X-User-ID", user.ID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Security: 401 when the current password is wrong", func(t *testing.T) {
		router, mockRepo := setupUserRouter()

		user := testUserWithPassword(t, "me@moodpulse.app", "TheOldPassword1!")
		mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		body, _ := json.Marshal(map[string]string{
			"current_password": "NotMyPassword1!",
			"new_password":     "TheNewPassword1!",
		})

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/me/password", bytes.NewBuffer(body))
		req.Header.Set("X-User-ID", user.ID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "current password is wrong")
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Fail: 400 when the new password is too short", func(t *testing.T) {
		router, mockRepo := setupUserRouter()

		body, _ := json.Marshal(map[string]string{
			"current_password": "TheOldPassword1!",
			"new_password":     "short",
		})

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/me/password", bytes.NewBuffer(body))
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "GetByID")
	})
}
