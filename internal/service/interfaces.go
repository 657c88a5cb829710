package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

// IAuthService defines the interface for authentication and capability checks
type IAuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	HasCapability(ctx context.Context, userID uuid.UUID, capability string) (bool, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, input *types.RecipeInput) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context) ([]*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id uint, input *types.RecipeInput) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uint) error
}

var (
	_ IAuthService   = (*AuthService)(nil)
	_ IRecipeService = (*RecipeService)(nil)
)
