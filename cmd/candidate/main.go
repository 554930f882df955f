package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/config"
	"github.com/stemsi/exstem-candidate/internal/database"
	"github.com/stemsi/exstem-candidate/internal/handler"
	"github.com/stemsi/exstem-candidate/internal/logger"
	"github.com/stemsi/exstem-candidate/internal/repository"
	"github.com/stemsi/exstem-candidate/internal/router"
	"github.com/stemsi/exstem-candidate/internal/service"
	"github.com/stemsi/exstem-candidate/internal/session"
	"github.com/stemsi/exstem-candidate/internal/validator"
	"github.com/stemsi/exstem-candidate/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("api", cfg.APIBaseURL).
		Msg("Starting ExStem candidate daemon")

	if cfg.AccessToken == "" {
		log.Warn().Msg("ACCESS_TOKEN is empty, collaborator calls will be unauthenticated")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Collaborators ──────────────────────────────────────
	api := repository.NewAPIClient(cfg, log)
	questionRepo := repository.NewQuestionRepository(api)
	answerRepo := repository.NewAnswerRepository(api)

	// ─── Initialize Session Core ───────────────────────────────────────
	store := session.NewStore(log)
	countdown := session.NewCountdown(store, cfg.TickInterval, log)
	nav := session.NewNavigator(store)

	// ─── Initialize Services ──────────────────────────────────────────
	examService := service.NewExamService(store, countdown, questionRepo, log)
	submissionService := service.NewSubmissionService(store, answerRepo, cfg.ResultURL, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Session: handler.NewSessionHandler(examService, submissionService, store, nav),
		WS:      handler.NewWSHandler(store, nav, submissionService, log, cfg.AllowedOrigins),
		System:  handler.NewSystemHandler(examService, rdb),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	monitorWorker := worker.NewMonitorWorker(store, rdb, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		monitorWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

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

	// 2. Close the session so the countdown exits and late results drop.
	examService.Stop()

	// 3. Stop the monitor worker.
	workerCancel()
	<-workerDone

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
