package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodpulse/moodpulse-api/internal/adapters/handler/http/middleware"
	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

type LogHandler struct {
	svc *services.LogService
}

func NewLogHandler(svc *services.LogService) *LogHandler {
	return &LogHandler{
		svc: svc,
	}
}

type createLogRequest struct {
	MoodID      string    `json:"mood_id" binding:"required"`
	ActivityIDs []string  `json:"activity_ids"`
	Note        string    `json:"note"`
	LoggedAt    time.Time `json:"logged_at"`
}

type updateLogRequest struct {
	MoodID      string    `json:"mood_id" binding:"required"`
	ActivityIDs []string  `json:"activity_ids"`
	Note        string    `json:"note"`
	LoggedAt    time.Time `json:"logged_at"`
	Version     int       `json:"version" binding:"required"`
}

func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/logs")
	{
		logs.POST("", h.Create)
		logs.GET("", h.List)
		logs.GET("/:id", h.GetByID)
		logs.PUT("/:id", h.Update)
		logs.DELETE("/:id", h.Delete)
	}

	router.GET("/streak", h.Streak)
}

// Create stores a mood log
// @Summary Log a mood
// @Description Stores the log and returns it together with the updated streak and any badge earned by it
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createLogRequest true "Log content"
// @Success 201 {object} services.CreateLogResult
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/v1/logs [post]
func (h *LogHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.CreateLogInput{
		UserID:      userID,
		MoodID:      req.MoodID,
		ActivityIDs: req.ActivityIDs,
		Note:        req.Note,
		LoggedAt:    req.LoggedAt,
	}

	result, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// List returns the user's logs in a date range
// @Summary List own logs
// @Description Defaults to the last 30 days when no range is given. Newest first.
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (RFC3339)"
// @Param to query string false "Range end (RFC3339)"
// @Success 200 {array} domain.MoodLog
// @Router /api/v1/logs [get]
func (h *LogHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if t := c.Query("to"); t != "" {
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			to = parsed
		}
	}
	if f := c.Query("from"); f != "" {
		if parsed, err := time.Parse(time.RFC3339, f); err == nil {
			from = parsed
		}
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetByID returns one log
// @Summary Get a log
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Success 200 {object} domain.MoodLog
// @Failure 404 {object} object{error=string}
// @Router /api/v1/logs/{id} [get]
func (h *LogHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Update amends a log
// @Summary Update a log
// @Description Requires the version last seen by the client. A stale version yields 409.
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Param request body updateLogRequest true "New log content"
// @Success 200 {object} domain.MoodLog
// @Failure 409 {object} object{error=string}
// @Router /api/v1/logs/{id} [put]
func (h *LogHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	id := c.Param("id")
	var req updateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.UpdateLogInput{
		ID:          id,
		UserID:      userID,
		MoodID:      req.MoodID,
		ActivityIDs: req.ActivityIDs,
		Note:        req.Note,
		LoggedAt:    req.LoggedAt,
		Version:     req.Version,
	}

	entry, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete removes a log
// @Summary Delete a log
// @Tags logs
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Success 204
// @Failure 404 {object} object{error=string}
// @Router /api/v1/logs/{id} [delete]
func (h *LogHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	id := c.Param("id")

	err := h.svc.Delete(c.Request.Context(), id, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Streak returns the user's current streak state
// @Summary Get own streak
// @Description Users who never logged get a zero streak, not a 404.
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.MoodStreak
// @Router /api/v1/streak [get]
func (h *LogHandler) Streak(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	streak, err := h.svc.Streak(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, streak)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrLogNotFound) ||
		errors.Is(err, domain.ErrMoodNotFound) ||
		errors.Is(err, domain.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrLogConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "log has been modified elsewhere, reload and retry",
		})

	case errors.Is(err, domain.ErrInvalidLog) || errors.Is(err, domain.ErrNoteTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
