package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/cache"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/config"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/database"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/logging"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/modes"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/routes"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/services"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/storage"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/validation"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	logging.Setup(pgLogHandler)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Resolver cache: Redis when configured, in-process otherwise
	startCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	store, err := cache.Open(startCtx, cfg.RedisURL)
	cancel()
	if err != nil {
		slog.Error("cache connection failed", "error", err)
		os.Exit(1)
	}
	if mem, ok := store.(*cache.MemoryStore); ok {
		mem.StartSweeper(time.Minute, cleanupDone)
	}
	slog.Info("resolver cache ready", "redis", cfg.RedisURL != "", "ttl", cfg.ResolverCacheTTL.String())

	avatarStorage, err := storage.NewAvatarStorage(cfg.AvatarDir, cfg.BaseURL, cfg.AvatarMaxBytes)
	if err != nil {
		slog.Error("avatar storage init failed", "dir", cfg.AvatarDir, "error", err)
		os.Exit(1)
	}

	// Services
	registry := modes.Default()
	validator := validation.New()
	tagCache := services.NewTagCache(store, cfg.ResolverCacheTTL)

	authService := services.NewAuthService(database.DB, cfg)
	tagService := services.NewTagService(database.DB, registry, tagCache, avatarStorage)
	modeService := services.NewModeService(tagService, validator)
	tapService := services.NewTapService(database.DB)
	resolverService := services.NewResolverService(database.DB, registry, tapService, tagCache)
	analyticsService := services.NewAnalyticsService(database.DB, tagService, cfg.Location())
	profileService := services.NewProfileService(database.DB)
	avatarService := services.NewAvatarService(tagService, avatarStorage)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, avatarStorage.Dir(), routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, validator, cfg),
		Health:   handlers.NewHealthHandler(database.DB),
		Pages:    handlers.NewPageHandler(registry),
		TagPages: handlers.NewTagPageHandler(resolverService),
		Dashboard: handlers.NewDashboardHandler(
			tagService, modeService, analyticsService, profileService, avatarService, validator, cfg,
		),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "domain", cfg.AppDomain)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			slog.Error("cache close error", "error", err)
		}
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
