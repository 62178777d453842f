package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moodpulse/moodpulse-api/internal/adapters/handler/http/middleware"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

type BadgeHandler struct {
	svc *services.BadgeService
}

func NewBadgeHandler(svc *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{svc: svc}
}

func (h *BadgeHandler) RegisterRoutes(router *gin.RouterGroup) {
	badges := router.Group("/badges")
	{
		badges.GET("", h.List)
		badges.GET("/earned", h.ListEarned)
	}
}

// List returns every badge that can be earned
// @Summary List the badge catalog
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Badge
// @Router /api/v1/badges [get]
func (h *BadgeHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// ListEarned returns the badges the user has been awarded
// @Summary List own badges
// @Tags badges
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.UserBadge
// @Router /api/v1/badges/earned [get]
func (h *BadgeHandler) ListEarned(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}
