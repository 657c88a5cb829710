package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

// ErrRecipeNotFound is returned when no recipe has the requested id.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func orderedIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("ingredients.id ASC")
}

// CreateRecipe stores a recipe and its ingredients in one transaction.
// The input must carry every field.
func (s *RecipeService) CreateRecipe(ctx context.Context, input *types.RecipeInput) (*models.Recipe, error) {
	name, okName := input.Name.Get()
	description, okDesc := input.Description.Get()
	ingredients, okIngr := input.Ingredients.Get()
	if !okName || !okDesc || !okIngr {
		return nil, errors.New("create requires name, description and ingredients")
	}

	recipe := &models.Recipe{Name: name, Description: description}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return insertIngredients(tx, recipe.ID, ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	return findRecipe(s.db.WithContext(ctx), id)
}

// ListRecipes returns every recipe in creation order.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	if err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Order("recipes.id ASC").
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe applies the set fields of input. A set ingredient list
// replaces every ingredient the recipe currently owns.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uint, input *types.RecipeInput) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to load recipe %d: %w", id, err)
		}

		updates := map[string]interface{}{}
		if name, ok := input.Name.Get(); ok {
			updates["name"] = name
		}
		if description, ok := input.Description.Get(); ok {
			updates["description"] = description
		}
		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update recipe %d: %w", id, err)
			}
		}

		if ingredients, ok := input.Ingredients.Get(); ok {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear ingredients of recipe %d: %w", id, err)
			}
			if err := insertIngredients(tx, id, ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe together with its ingredients.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id").First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to load recipe %d: %w", id, err)
		}

		// The schema cascades too, but SQLite only honours it with foreign keys enabled.
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients of recipe %d: %w", id, err)
		}
		if err := tx.Delete(&models.Recipe{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe %d: %w", id, err)
		}
		return nil
	})
}

// CountIngredients returns how many ingredient rows reference a recipe id.
func (s *RecipeService) CountIngredients(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return count, nil
}

func findRecipe(db *gorm.DB, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.Preload("Ingredients", orderedIngredients).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe %d: %w", id, err)
	}
	return &recipe, nil
}

func insertIngredients(tx *gorm.DB, recipeID uint, ingredients []types.IngredientInput) error {
	if len(ingredients) == 0 {
		return nil
	}
	rows := make([]models.Ingredient, 0, len(ingredients))
	for _, in := range ingredients {
		rows = append(rows, models.Ingredient{Name: in.Name, RecipeID: recipeID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create ingredients for recipe %d: %w", recipeID, err)
	}
	return nil
}
