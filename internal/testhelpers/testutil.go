package testhelpers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

// TestJWTSecret signs every token issued in tests
const TestJWTSecret = "test-jwt-secret"

// CreateTestUserAndToken creates a user holding capabilities and returns their ID and a valid JWT token
func CreateTestUserAndToken(t *testing.T, db *gorm.DB, capabilities ...string) (uuid.UUID, string) {
	t.Helper()
	ctx := context.Background()
	auth := service.NewAuthService(db, TestJWTSecret)

	username := "user_" + uuid.NewString()[:8]
	user, err := auth.CreateUser(ctx, username, "testpassword123", false)
	require.NoError(t, err, "failed to create test user")
	require.NoError(t, auth.GrantCapabilities(ctx, user.ID, capabilities...))

	token, err := auth.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: username})
	require.NoError(t, err, "failed to generate token")
	return user.ID, token
}

// CreateTestRecipe stores a recipe with the given ingredient names
func CreateTestRecipe(t *testing.T, db *gorm.DB, name, description string, ingredients ...string) *models.Recipe {
	t.Helper()
	in := &types.RecipeInput{
		Name:        types.Some(name),
		Description: types.Some(description),
		Ingredients: types.Some([]types.IngredientInput{}),
	}
	for _, i := range ingredients {
		in.Ingredients.Value = append(in.Ingredients.Value, types.IngredientInput{Name: i})
	}
	recipe, err := service.NewRecipeService(db).CreateRecipe(context.Background(), in)
	require.NoError(t, err, "failed to create test recipe")
	return recipe
}

// DoJSON sends body (marshalled unless already []byte or string) and returns the recorder
func DoJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "failed to marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
