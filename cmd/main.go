package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/JordyAP28/sistema-deportivo/config"
	"github.com/JordyAP28/sistema-deportivo/db"
	"github.com/JordyAP28/sistema-deportivo/handlers"
	"github.com/JordyAP28/sistema-deportivo/live"
	"github.com/JordyAP28/sistema-deportivo/repositories"
	api "github.com/JordyAP28/sistema-deportivo/routes"
	"github.com/JordyAP28/sistema-deportivo/services"
	"github.com/JordyAP28/sistema-deportivo/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Хранилище эмблем клубов (Cloudflare R2). Опционально.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader = storage.NewDisabledUploader()
		logger.Warn("object storage is not configured, crest uploads disabled")
	}

	// WebSocket hub для live-обновлений таблиц
	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	// Репозитории
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	statisticRepo := repositories.NewPostgresStatisticRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	playerStatsRepo := repositories.NewPostgresPlayerStatsRepository(dbConn)

	// Движок агрегатов: читатель фактов, координатор пересчёта, проверка
	// консистентности и сверка.
	factStore := services.NewFactStore(tournamentRepo, playerRepo, matchRepo, statisticRepo)
	recomputeService := services.NewRecomputeService(
		factStore, standingRepo, playerStatsRepo, wsHub, logger, cfg.MaxMatchMinutes)
	consistencyService := services.NewConsistencyService(factStore, standingRepo, logger)
	reconciler := services.NewReconciler(tournamentRepo, consistencyService, recomputeService, logger)

	// Прикладные сервисы
	authService := services.NewAuthService(userRepo)
	clubService := services.NewClubService(clubRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo)
	tournamentService := services.NewTournamentService(tournamentRepo)
	matchService := services.NewMatchService(
		matchRepo, statisticRepo, recomputeService, logger, cfg.CareerStats)
	statisticService := services.NewStatisticService(
		statisticRepo, matchRepo, recomputeService, logger, cfg.MaxMatchMinutes, cfg.CareerStats)
	standingsService := services.NewStandingsService(
		tournamentRepo, playerRepo, standingRepo, playerStatsRepo)
	logger.Info("services initialized")

	// Периодическая сверка агрегатов с фактами
	go func() {
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()
		logger.Info("reconciliation scheduler started", slog.Duration("interval", cfg.ReconcileInterval))

		for range ticker.C {
			if err := reconciler.ReconcileAll(context.Background()); err != nil {
				logger.Error("scheduled reconciliation failed", slog.Any("error", err))
			}
		}
	}()

	// HTTP-обработчики
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	clubHandler := handlers.NewClubHandler(clubService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, matchService)
	matchHandler := handlers.NewMatchHandler(matchService)
	statisticHandler := handlers.NewStatisticHandler(statisticService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	adminHandler := handlers.NewAdminHandler(recomputeService, consistencyService, reconciler)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		clubHandler,
		playerHandler,
		tournamentHandler,
		matchHandler,
		statisticHandler,
		standingsHandler,
		adminHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
