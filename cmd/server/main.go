package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/guidely/guidely-backend/internal/config"
	"github.com/guidely/guidely-backend/internal/database"
	"github.com/guidely/guidely-backend/internal/handler"
	"github.com/guidely/guidely-backend/internal/logger"
	"github.com/guidely/guidely-backend/internal/repository"
	"github.com/guidely/guidely-backend/internal/router"
	"github.com/guidely/guidely-backend/internal/service"
	"github.com/guidely/guidely-backend/internal/validator"
	"github.com/guidely/guidely-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Guidely Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	followRepo := repository.NewFollowRepository(pool)
	classRepo := repository.NewStudentClassRepository(pool)
	guideRepo := repository.NewStudyGuideRepository(pool)
	reportRepo := repository.NewGradingResultRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	activity := service.NewActivityPublisher(rdb, log)

	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo)
	followService := service.NewFollowService(followRepo, userRepo, activity, log)
	classService := service.NewClassService(classRepo, followRepo, log)
	guideService := service.NewGuideService(guideRepo, userRepo, followRepo, rdb, activity, log)
	reportService := service.NewReportService(reportRepo, userRepo, followRepo, activity, log)
	uploadService := service.NewUploadService(cfg, log)
	shareService := service.NewShareService(guideRepo, userRepo, cfg, log)
	dashboardService := service.NewDashboardService(dashboardRepo)

	openaiCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		openaiCfg.BaseURL = cfg.OpenAIBaseURL
	}
	scoringService := service.NewScoringService(openai.NewClientWithConfig(openaiCfg), cfg.OpenAIModel, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService),
		Follow:    handler.NewFollowHandler(followService),
		Student:   handler.NewStudentHandler(userService),
		Class:     handler.NewClassHandler(classService),
		Guide:     handler.NewGuideHandler(guideService, shareService),
		Report:    handler.NewReportHandler(reportService),
		Scoring:   handler.NewScoringHandler(scoringService),
		Upload:    handler.NewUploadHandler(uploadService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	activityWorker := worker.NewActivityWorker(pool, rdb, log)
	go activityWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published guides into Redis BEFORE accepting traffic so the
	// first reader never races a lazy load.
	if err := guideService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
