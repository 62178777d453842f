package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

type ActivityHandler struct {
	svc *services.ActivityService
}

func NewActivityHandler(svc *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		svc: svc,
	}
}

type activityRequest struct {
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activities := router.Group("/activities")
	{
		activities.GET("", h.List)
		activities.POST("", h.Create)
		activities.PUT("/:id", h.Update)
		activities.DELETE("/:id", h.Delete)
	}
}

// List returns the activity catalog
// @Summary List the activity catalog
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Activity
// @Router /api/v1/activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// Create adds an activity to the catalog
// @Summary Create an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body activityRequest true "Activity attributes"
// @Success 201 {object} domain.Activity
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/v1/activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.ActivityInput{
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}

	activity, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// Update revises a catalog activity
// @Summary Update an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body activityRequest true "Activity attributes"
// @Success 200 {object} domain.Activity
// @Failure 404 {object} object{error=string}
// @Router /api/v1/activities/{id} [put]
func (h *ActivityHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.ActivityInput{
		Name:      req.Name,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}

	activity, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// Delete removes an activity
// @Summary Delete an activity
// @Tags activities
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 204
// @Failure 404 {object} object{error=string}
// @Router /api/v1/activities/{id} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleActivityError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func handleActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})

	case errors.Is(err, domain.ErrActivityAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrActivityNameEmpty) ||
		errors.Is(err, domain.ErrActivityNameTooLong) ||
		errors.Is(err, domain.ErrActivityIconEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
