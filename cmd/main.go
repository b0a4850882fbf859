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

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/config"
	"github.com/Dosada05/school-tournament/db"
	"github.com/Dosada05/school-tournament/handlers"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/repositories"
	api "github.com/Dosada05/school-tournament/routes"
	"github.com/Dosada05/school-tournament/services"
	"github.com/Dosada05/school-tournament/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("weeks", cfg.Schedule.Weeks),
		slog.Int("days", len(cfg.Schedule.Days)),
		slog.Int("times", len(cfg.Schedule.Times)),
		slog.String("starting_discipline", string(cfg.Schedule.StartingDiscipline)),
	)

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
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

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.ApplySchema(schemaCtx, dbConn)
	cancelSchema()
	if err != nil {
		logger.Error("failed to apply database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Export publishing is optional; without R2 settings the endpoint
	// answers 503.
	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), cfg.R2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Warn("R2 settings missing, schedule publishing disabled")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(hubCtx)
	logger.Info("WebSocket Hub started")

	m := metrics.New()

	tx := repositories.NewTransactor(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	scheduleService := services.NewScheduleService(cfg.Schedule, tx, matchRepo, wsHub, m, logger)
	bracketService := services.NewBracketService(tx, teamRepo, matchRepo, wsHub, m, logger)
	matchService := services.NewMatchService(tx, matchRepo, bracketService, wsHub, m, logger)
	teamService := services.NewTeamService(teamRepo, logger)
	exportService := services.NewExportService(cfg.Schedule, tx, matchRepo, uploader, m, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Health:    handlers.NewHealthHandler(dbConn),
		Team:      handlers.NewTeamHandler(teamService),
		Match:     handlers.NewMatchHandler(matchService, scheduleService),
		Schedule:  handlers.NewScheduleHandler(scheduleService),
		Bracket:   handlers.NewBracketHandler(bracketService),
		Export:    handlers.NewExportHandler(exportService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        m.Handler(),
		Logger:         logger,
	})
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
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
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		// hijacked websocket connections are not tracked by Shutdown
		stopHub()
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
