package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logging"
	"github.com/pageza/recipebook/backend/internal/serializer"
	"github.com/pageza/recipebook/backend/internal/service"
)

// sampleRecipes are seeded when no file is given
var sampleRecipes = []json.RawMessage{
	json.RawMessage(`{"name":"Tomato Soup","description":"Simmer tomatoes with onion and blend until smooth.","ingredients":[{"name":"Tomatoes"},{"name":"Onion"},{"name":"Vegetable stock"},{"name":"Salt"}]}`),
	json.RawMessage(`{"name":"Pancakes","description":"Whisk everything together and fry in a hot pan.","ingredients":[{"name":"Flour"},{"name":"Milk"},{"name":"Eggs"},{"name":"Butter"}]}`),
	json.RawMessage(`{"name":"Guacamole","description":"Mash avocados and stir in the rest.","ingredients":[{"name":"Avocados"},{"name":"Lime"},{"name":"Red onion"},{"name":"Coriander"}]}`),
	json.RawMessage(`{"name":"Garlic Bread","description":"Spread garlic butter on a baguette and bake.","ingredients":[{"name":"Baguette"},{"name":"Butter"},{"name":"Garlic"}]}`),
}

func main() {
	file := flag.String("file", "", "JSON file holding an array of recipe payloads")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	payloads := sampleRecipes
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			logger.Fatal("failed to read seed file", zap.Error(err))
		}
		if err := json.Unmarshal(data, &payloads); err != nil {
			logger.Fatal("seed file must hold a JSON array", zap.Error(err))
		}
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	recipes := service.NewRecipeService(db)
	ctx := context.Background()
	created := 0
	for i, payload := range payloads {
		input, err := serializer.Decode(payload, false)
		if err != nil {
			logger.Warn("skipping invalid recipe", zap.Int("index", i), zap.Error(err))
			continue
		}
		recipe, err := recipes.CreateRecipe(ctx, input)
		if err != nil {
			logger.Fatal("failed to create recipe", zap.Int("index", i), zap.Error(err))
		}
		logger.Info("created recipe", zap.Uint("id", recipe.ID), zap.String("name", recipe.Name))
		created++
	}
	logger.Info("seeding finished", zap.Int("created", created), zap.Int("skipped", len(payloads)-created))
}
