package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/service"
)

func main() {
	username := flag.String("username", "", "username of the new user")
	superuser := flag.Bool("superuser", false, "grant every capability")
	caps := flag.String("cap", "", "comma-separated capabilities, e.g. recipes.add_recipe,recipes.change_recipe")
	flag.Parse()

	// The password is read from the environment so it stays out of shell history.
	password := os.Getenv("RECIPEBOOK_PASSWORD")
	if *username == "" || password == "" {
		log.Fatal("usage: RECIPEBOOK_PASSWORD=... createuser -username NAME [-superuser] [-cap a,b]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
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

	user, err := auth.CreateUser(ctx, *username, password, *superuser)
	if err != nil {
		logger.Fatal("failed to create user", zap.Error(err))
	}

	var codenames []string
	for _, c := range strings.Split(*caps, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codenames = append(codenames, c)
		}
	}
	if err := auth.GrantCapabilities(ctx, user.ID, codenames...); err != nil {
		logger.Fatal("failed to grant capabilities", zap.Error(err))
	}

	logger.Info("created user",
		zap.String("id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Bool("superuser", user.IsSuperuser),
		zap.Strings("capabilities", codenames))
}
