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

	"github.com/Dosada05/petanque-manager/brackets"
	"github.com/Dosada05/petanque-manager/config"
	"github.com/Dosada05/petanque-manager/db"
	"github.com/Dosada05/petanque-manager/handlers"
	"github.com/Dosada05/petanque-manager/repositories"
	api "github.com/Dosada05/petanque-manager/routes"
	"github.com/Dosada05/petanque-manager/services"
	"github.com/Dosada05/petanque-manager/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort), slog.String("db_driver", cfg.DBDriver), slog.Bool("legacy_tie_scoring", cfg.LegacyTieScoring))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL, cfg.DBConnectTimeout)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(context.Background(), dbConn, cfg.DBDriver); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Хранилище для экспорта таблиц (опционально)
	var uploader storage.FileUploader
	if cfg.Export.Enabled() {
		uploader, err = storage.NewS3Uploader(context.Background(), storage.S3UploaderConfig{
			AccountID:       cfg.Export.AccountID,
			AccessKeyID:     cfg.Export.AccessKeyID,
			SecretAccessKey: cfg.Export.SecretAccessKey,
			BucketName:      cfg.Export.Bucket,
			PublicBaseURL:   cfg.Export.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize export storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("export storage initialized", slog.String("bucket", cfg.Export.Bucket))
	} else {
		logger.Info("standings export disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()

	// Инициализация репозиториев
	tournamentRepo := repositories.NewTournamentRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn)
	matchRepo := repositories.NewMatchRepository(dbConn)

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		teamRepo,
		matchRepo,
		wsHub,
		services.TournamentServiceConfig{
			LegacyTieScoring: cfg.LegacyTieScoring,
			MaxScore:         cfg.MaxScore,
		},
		logger,
	)
	exportService := services.NewExportService(tournamentService, uploader, logger)
	authService, err := services.NewAuthService(services.AuthServiceConfig{
		OrganizerPassword: cfg.OrganizerPassword,
		JWTSecret:         []byte(cfg.JWTSecretKey),
	})
	if err != nil {
		logger.Error("failed to initialize auth service", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(tournamentService, exportService),
		Team:       handlers.NewTeamHandler(tournamentService),
		Match:      handlers.NewMatchHandler(tournamentService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSOrigins, logger),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSOrigins,
		Logger:         logger,
	})

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			return
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
			return
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
