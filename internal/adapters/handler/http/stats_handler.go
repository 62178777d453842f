package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodpulse/moodpulse-api/internal/adapters/handler/http/middleware"
	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/breakdown", h.GetBreakdown)
		stats.GET("/summary", h.GetSummary)
	}
}

// statsQuery pulls the shared period/anchor parameters. The anchor is a
// plain date; an empty one means "the period containing today".
func statsQuery(c *gin.Context) (domain.PeriodKind, time.Time, bool) {
	kind := domain.PeriodKind(c.DefaultQuery("period", string(domain.PeriodDay)))

	var anchor time.Time
	if a := c.Query("anchor"); a != "" {
		parsed, err := time.Parse("2006-01-02", a)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anchor format, expected YYYY-MM-DD"})
			return kind, anchor, false
		}
		anchor = parsed
	}

	return kind, anchor, true
}

// GetBreakdown returns per-bucket mood counts for a period
// @Summary Mood breakdown for a period
// @Description Buckets are hours of the day, days of the week or days of the month depending on the period
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param period query string false "day, week or month" default(day)
// @Param anchor query string false "Date inside the wanted period (YYYY-MM-DD)"
// @Success 200 {object} services.BreakdownResult
// @Failure 400 {object} object{error=string}
// @Router /api/v1/stats/breakdown [get]
func (h *StatsHandler) GetBreakdown(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	kind, anchor, ok := statsQuery(c)
	if !ok {
		return
	}

	result, err := h.svc.Breakdown(c.Request.Context(), userID, kind, anchor)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSummary returns aggregate mood stats for a period
// @Summary Mood summary for a period
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param period query string false "day, week or month" default(day)
// @Param anchor query string false "Date inside the wanted period (YYYY-MM-DD)"
// @Success 200 {object} services.SummaryResult
// @Failure 400 {object} object{error=string}
// @Router /api/v1/stats/summary [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	kind, anchor, ok := statsQuery(c)
	if !ok {
		return
	}

	result, err := h.svc.Summary(c.Request.Context(), userID, kind, anchor)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, result)
}
