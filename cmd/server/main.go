package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/enrichment"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/logging"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/routes"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/services"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/session"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	stdout := logging.Setup(os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET is required")
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid time zone", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// DB log sink (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db, stdout)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	// Stores and services
	accounts := repository.NewGormAccountRepository(db)
	servers := repository.NewGormServerRepository(db)
	announcements := repository.NewGormAnnouncementRepository(db)

	enricher := enrichment.NewClient(cfg.EnrichmentAPIURL, cfg.EnrichmentAPIKey, cfg.EnrichmentTimeout)
	if !enricher.Enabled() {
		slog.Warn("ENRICHMENT_API_KEY not set, server details will use fallbacks")
	}

	authService := services.NewAuthService(accounts, models.Role(cfg.FallbackRole))
	serverService := services.NewServerService(servers, enricher)
	announcementService := services.NewAnnouncementService(announcements, servers, loc)
	userService := services.NewUserService(accounts, cfg.BcryptCost)
	sessions := session.NewManager(cfg)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, sessions)
	publicHandler := handlers.NewPublicHandler(serverService, announcementService, cfg)
	serverHandler := handlers.NewServerHandler(serverService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	userHandler := handlers.NewUserHandler(userService)

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

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "same-origin")
		return c.Next()
	})

	routes.Setup(app, sessions, authService,
		healthHandler, authHandler, publicHandler, serverHandler, announcementHandler, userHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
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
	dbLogHandler.Stop()
	slog.SetDefault(slog.New(stdout))
	sentry.Flush(2 * time.Second)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
