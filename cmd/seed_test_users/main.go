package main

import (
	"context"
	"errors"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/service"
)

const testPassword = "testpassword123"

// Development accounts covering each authorization outcome.
var testUsers = []struct {
	username     string
	superuser    bool
	capabilities []string
}{
	{username: "admin", superuser: true},
	{username: "editor", capabilities: []string{service.CapabilityAddRecipe, service.CapabilityChangeRecipe}},
	{username: "curator", capabilities: []string{service.CapabilityDeleteRecipe}},
	{username: "viewer"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Environment.IsProduction() {
		log.Fatal("refusing to seed test users in production")
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	auth := service.NewAuthService(db, cfg.JWTSecret)
	ctx := context.Background()

	for _, u := range testUsers {
		user, err := auth.CreateUser(ctx, u.username, testPassword, u.superuser)
		if errors.Is(err, service.ErrUserExists) {
			logger.Info("user already exists, skipping", zap.String("username", u.username))
			continue
		}
		if err != nil {
			logger.Error("failed to create user", zap.String("username", u.username), zap.Error(err))
			continue
		}
		if err := auth.GrantCapabilities(ctx, user.ID, u.capabilities...); err != nil {
			logger.Error("failed to grant capabilities", zap.String("username", u.username), zap.Error(err))
			continue
		}
		logger.Info("created test user",
			zap.String("username", u.username),
			zap.Bool("superuser", u.superuser),
			zap.Strings("capabilities", u.capabilities))
	}

	logger.Info("test users ready", zap.String("password", testPassword))
}
