package main

import (
	"context"
	"database/sql"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ascend-app/survey-api/internal/adapters/handler/http"
	"github.com/ascend-app/survey-api/internal/adapters/ratelimit/local"
	"github.com/ascend-app/survey-api/internal/adapters/ratelimit/redisrate"
	"github.com/ascend-app/survey-api/internal/adapters/repository/postgres"
	"github.com/ascend-app/survey-api/internal/config"
	"github.com/ascend-app/survey-api/internal/core/ports"
	"github.com/ascend-app/survey-api/internal/core/services"
	"github.com/ascend-app/survey-api/internal/logging"
)

func main() {
	logger := logging.New("info")

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}
	logger = logging.New(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var limiter ports.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		limiter = redisrate.New(rdb, cfg.RateLimit, cfg.RateWindow, logger)
		logger.WithField("addr", cfg.RedisAddr).Info("rate limiting backed by redis")
	} else {
		l := local.New(cfg.RateLimit, cfg.RateWindow)
		l.StartJanitor(ctx, 2*time.Minute)
		limiter = l
		logger.Warn("REDIS_ADDR not set, rate limiting is per-process only")
	}

	surveyRepo := postgres.NewSurveyRepository(db)
	recorder := postgres.NewSubmissionRepository(db)

	surveyService := services.NewSurveyService(surveyRepo, cfg.PublicBaseURL)
	submissionService := services.NewSubmissionService(surveyRepo, recorder)

	handler := http.NewHandler(
		http.NewSurveyHandler(surveyService),
		http.NewSubmissionHandler(submissionService, limiter, logger),
		http.NewHealthHandler(db),
		[]byte(cfg.JWTSecret),
	)

	server := &stdhttp.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	go func() {
		logger.WithField("addr", cfg.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(err)
	}
}
