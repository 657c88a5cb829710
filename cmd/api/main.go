package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/api"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/router"
	"github.com/pageza/recipebook/backend/internal/server"
	"github.com/pageza/recipebook/backend/internal/service"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(db, logger); err != nil {
		return err
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RedisURL != "" && cfg.RateLimitPerHour > 0 {
		redisClient, err := database.NewRedisClient(context.Background(), cfg.RedisURL, logger)
		if err != nil {
			// Continue without rate limiting if Redis is not available
			logger.Warn("rate limiting disabled", zap.Error(err))
		} else {
			defer func() { _ = redisClient.Close() }()
			rateLimiter = middleware.NewRecipeMutationRateLimiter(redisClient, cfg.RateLimitPerHour)
		}
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)

	handler := router.SetupRouter(router.Dependencies{
		Logger:        logger,
		AuthService:   authService,
		RecipeHandler: api.NewRecipeHandler(recipeService),
		AuthHandler:   api.NewAuthHandler(authService),
		HealthHandler: api.NewHealthHandler(db, version),
		Metrics:       middleware.NewMetrics("recipebook"),
		RateLimiter:   rateLimiter,
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := server.New(cfg.Addr(), handler, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
