package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/auth"
	"github.com/fairyhunter13/storefront-api/internal/config"
	"github.com/fairyhunter13/storefront-api/internal/handler"
	"github.com/fairyhunter13/storefront-api/internal/middleware"
	"github.com/fairyhunter13/storefront-api/internal/repository"
	"github.com/fairyhunter13/storefront-api/internal/service"
	"github.com/fairyhunter13/storefront-api/internal/validator"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, database.PoolOptions{
		DSN:        cfg.DB.DSN(),
		MaxRetries: cfg.DB.ConnRetries,
		SlowQuery:  cfg.DB.SlowQuery,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("failed to apply database migrations")
		}
	}

	// Metrics registry: Go runtime, process, pool and HTTP collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		database.NewPoolStatsCollector(pool),
	)
	httpMetrics, err := middleware.NewMetrics(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Storefront API",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Initialize validator
	validate := validator.New()

	// Repositories
	bonusRepo := repository.NewBonusRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	postRepo := repository.NewPostRepository(pool)

	// Services
	tokens := auth.NewTokenManager(cfg.Admin.TokenSecret, cfg.Admin.TokenTTL)
	bonusService := service.NewBonusService(bonusRepo)
	reviewService := service.NewReviewService(reviewRepo)
	postService := service.NewPostService(postRepo, service.ListingLimits{
		PopularDefault:  cfg.Blog.PopularDefault,
		PopularMax:      cfg.Blog.PopularMax,
		FeaturedDefault: cfg.Blog.FeaturedDefault,
		FeaturedMax:     cfg.Blog.FeaturedMax,
	})
	authService := service.NewAuthService(service.AdminCredential{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
	}, tokens)

	// Routes
	handler.RegisterRoutes(app, handler.Handlers{
		Health: handler.NewHealthHandler(pool),
		Bonus:  handler.NewBonusHandler(bonusService, validate),
		Review: handler.NewReviewHandler(reviewService, validate),
		Post:   handler.NewPostHandler(postService, validate),
		Auth:   handler.NewAuthHandler(authService, validate),
	}, middleware.RequireAdmin(tokens))

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "storefront-api").Logger()
	}
}
