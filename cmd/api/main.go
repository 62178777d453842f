package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	_ "github.com/moodpulse/moodpulse-api/docs"
	"github.com/moodpulse/moodpulse-api/internal/adapters/cache"
	"github.com/moodpulse/moodpulse-api/internal/adapters/events"
	adapterHTTP "github.com/moodpulse/moodpulse-api/internal/adapters/handler/http"
	"github.com/moodpulse/moodpulse-api/internal/adapters/handler/http/middleware"
	"github.com/moodpulse/moodpulse-api/internal/adapters/repository"
	"github.com/moodpulse/moodpulse-api/internal/core/domain"
	"github.com/moodpulse/moodpulse-api/internal/core/services"
	"github.com/moodpulse/moodpulse-api/internal/core/workers"
)

// @title MoodPulse API
// @version 1.0
// @description Mood tracking backend: mood logs with optimistic locking, streaks, badges and period statistics.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}
	jwtIssuer := getEnv("JWT_ISSUER", "moodpulse")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "moodpulse_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "moodpulse_db"),
	)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisClient, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Warning: Redis unavailable (%v). Catalog caching is off and rate limiting falls back to in-process.", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var publisher domain.EventPublisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		publisher = events.NewKafkaPublisher(strings.Split(brokers, ","), getEnv("KAFKA_TOPIC", "moodpulse.events"))
		log.Printf("Publishing events to Kafka at %s", brokers)
	} else {
		publisher = events.NewNopPublisher()
		log.Println("KAFKA_BROKERS not set, event publishing disabled")
	}
	defer publisher.Close()

	userRepo := repository.NewPostgresUserRepository(db.DB)

	var moodRepo domain.MoodRepository = repository.NewPostgresMoodRepository(db)
	if redisClient != nil {
		moodRepo = repository.NewCachedMoodRepository(moodRepo, redisClient)
	}

	activityRepo := repository.NewPostgresActivityRepository(db)
	logRepo := repository.NewPostgresLogRepository(db)
	streakRepo := repository.NewPostgresStreakRepository(db)
	badgeRepo := repository.NewPostgresBadgeRepository(db)

	rebuilder := workers.NewStreakRebuilder(logRepo, streakRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuilder.Start(ctx)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour, userRepo)
	userService := services.NewUserService(userRepo)
	moodService := services.NewMoodService(moodRepo, logRepo)
	activityService := services.NewActivityService(activityRepo)
	badgeService := services.NewBadgeService(badgeRepo, publisher)
	logService := services.NewLogService(logRepo, moodRepo, activityRepo, streakRepo, badgeService, rebuilder, publisher)
	statsService := services.NewStatsService(logRepo)

	if err := moodService.EnsureDefaults(ctx); err != nil {
		log.Fatalf("Critical: Failed to seed mood catalog: %v", err)
	}
	if err := activityService.EnsureDefaults(ctx); err != nil {
		log.Fatalf("Critical: Failed to seed activity catalog: %v", err)
	}
	if err := badgeService.EnsureDefaults(ctx); err != nil {
		log.Fatalf("Critical: Failed to seed badge catalog: %v", err)
	}

	reconciler := workers.NewReconciler(streakRepo, rebuilder, getEnv("STREAK_RECONCILE_CRON", "0 3 * * *"))
	if err := reconciler.Start(); err != nil {
		log.Fatalf("Critical: Failed to schedule streak reconciliation: %v", err)
	}

	middleware.InitPrometheus()

	// Without Redis the router still needs some throttle in front of it.
	var memoryLimiter *middleware.MemoryRateLimiter
	if redisClient == nil {
		memoryLimiter = middleware.NewMemoryRateLimiter(5, 30)
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		UserHandler:     adapterHTTP.NewUserHandler(userService),
		MoodHandler:     adapterHTTP.NewMoodHandler(moodService),
		ActivityHandler: adapterHTTP.NewActivityHandler(activityService),
		LogHandler:      adapterHTTP.NewLogHandler(logService),
		BadgeHandler:    adapterHTTP.NewBadgeHandler(badgeService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           redisClient,
		MemoryLimiter:   memoryLimiter,
		MetricsUser:     os.Getenv("METRICS_USER"),
		MetricsPass:     os.Getenv("METRICS_PASS"),
		StartTime:       startTime,
	})

	serverPort := getEnv("PORT", "8080")

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("MoodPulse API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	reconciler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
