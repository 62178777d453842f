package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

type MoodHandler struct {
	svc *services.MoodService
}

func NewMoodHandler(svc *services.MoodService) *MoodHandler {
	return &MoodHandler{
		svc: svc,
	}
}

type moodRequest struct {
	Name      string `json:"name" binding:"required"`
	Emoji     string `json:"emoji" binding:"required"`
	Color     string `json:"color" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

func (h *MoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	moods := router.Group("/moods")
	{
		moods.GET("", h.List)
		moods.POST("", h.Create)
		moods.PUT("/:id", h.Update)
		moods.DELETE("/:id", h.Delete)
	}
}

// List returns the mood catalog
// @Summary List the mood catalog
// @Tags moods
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Mood
// @Router /api/v1/moods [get]
func (h *MoodHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// Create adds a mood to the catalog
// @Summary Create a mood
// @Tags moods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body moodRequest true "Mood attributes"
// @Success 201 {object} domain.Mood
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/v1/moods [post]
func (h *MoodHandler) Create(c *gin.Context) {
	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.MoodInput{
		Name:      req.Name,
		Emoji:     req.Emoji,
		Color:     req.Color,
		SortOrder: req.SortOrder,
	}

	mood, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		handleMoodError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mood)
}

// Update revises a catalog mood
// @Summary Update a mood
// @Tags moods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mood ID"
// @Param request body moodRequest true "Mood attributes"
// @Success 200 {object} domain.Mood
// @Failure 404 {object} object{error=string}
// @Router /api/v1/moods/{id} [put]
func (h *MoodHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.MoodInput{
		Name:      req.Name,
		Emoji:     req.Emoji,
		Color:     req.Color,
		SortOrder: req.SortOrder,
	}

	mood, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		handleMoodError(c, err)
		return
	}

	c.JSON(http.StatusOK, mood)
}

// Delete removes an unused mood
// @Summary Delete a mood
// @Tags moods
// @Security BearerAuth
// @Param id path string true "Mood ID"
// @Success 204
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/v1/moods/{id} [delete]
func (h *MoodHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleMoodError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func handleMoodError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMoodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "mood not found"})

	case errors.Is(err, domain.ErrMoodAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrMoodInUse):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "mood in use",
			"message": "logs reference this mood, update or delete them first",
		})

	case errors.Is(err, domain.ErrMoodNameEmpty) ||
		errors.Is(err, domain.ErrMoodNameTooLong) ||
		errors.Is(err, domain.ErrMoodEmojiEmpty) ||
		errors.Is(err, domain.ErrInvalidColor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
