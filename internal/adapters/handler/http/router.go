package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/moodpulse/moodpulse-api/internal/adapters/handler/http/middleware"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
)

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	MoodHandler     *MoodHandler
	ActivityHandler *ActivityHandler
	LogHandler      *LogHandler
	BadgeHandler    *BadgeHandler
	StatsHandler    *StatsHandler
	TokenService    *services.TokenService

	DB    *sqlx.DB
	Redis *redis.Client

	// MemoryLimiter throttles when Redis is absent. Leaving both nil
	// disables rate limiting entirely (tests do this).
	MemoryLimiter *middleware.MemoryRateLimiter

	MetricsUser string
	MetricsPass string

	StartTime time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.Use(middleware.MetricsMiddleware())

	switch {
	case deps.Redis != nil:
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, 100, 1*time.Minute))
	case deps.MemoryLimiter != nil:
		router.Use(deps.MemoryLimiter.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if deps.DB == nil {
			dbStatus = "not configured"
		} else if err := deps.DB.Ping(); err != nil {
			dbStatus = "unreachable"
		}

		redisStatus := "connected"
		if deps.Redis == nil {
			redisStatus = "not configured"
		} else if deps.Redis.Ping(c.Request.Context()).Err() != nil {
			redisStatus = "unreachable"
		}

		statusCode := 200
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = 503
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	metricsHandlers := gin.HandlersChain{gin.WrapH(promhttp.Handler())}
	if deps.MetricsUser != "" {
		metricsHandlers = gin.HandlersChain{
			gin.BasicAuth(gin.Accounts{deps.MetricsUser: deps.MetricsPass}),
			gin.WrapH(promhttp.Handler()),
		}
	}
	router.GET("/metrics", metricsHandlers...)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenService))
	{
		deps.UserHandler.RegisterRoutes(protected)
		deps.MoodHandler.RegisterRoutes(protected)
		deps.ActivityHandler.RegisterRoutes(protected)
		deps.LogHandler.RegisterRoutes(protected)
		deps.BadgeHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
	}

	return router
}
