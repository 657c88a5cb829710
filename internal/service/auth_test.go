package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/types"
)

func setupAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	return service.NewAuthService(testhelpers.SetupTestDatabase(t), "test-secret")
}

func TestLoginIssuesValidToken(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	user, err := auth.CreateUser(ctx, "chef", "password123", false)
	require.NoError(t, err)

	token, expiresAt, err := auth.Login(ctx, "chef", "password123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "chef", claims.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	_, err := auth.CreateUser(ctx, "chef", "password123", false)
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "chef", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestCreateUserRejectsDuplicate(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	_, err := auth.CreateUser(ctx, "chef", "password123", false)
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, "chef", "other", false)
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	auth := setupAuthService(t)

	other := service.NewAuthService(nil, "another-secret")
	token, err := other.GenerateToken(&types.TokenClaims{UserID: uuid.New()})
	require.NoError(t, err)
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	expired, err := auth.GenerateToken(&types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		UserID:           uuid.New(),
	})
	require.NoError(t, err)
	_, err = auth.ValidateToken(expired)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = auth.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestHasCapability(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	cook, err := auth.CreateUser(ctx, "cook", "pw", false)
	require.NoError(t, err)
	require.NoError(t, auth.GrantCapabilities(ctx, cook.ID, service.CapabilityAddRecipe))
	// Granting twice is harmless.
	require.NoError(t, auth.GrantCapabilities(ctx, cook.ID, service.CapabilityAddRecipe))

	admin, err := auth.CreateUser(ctx, "admin", "pw", true)
	require.NoError(t, err)

	ok, err := auth.HasCapability(ctx, cook.ID, service.CapabilityAddRecipe)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.HasCapability(ctx, cook.ID, service.CapabilityDeleteRecipe)
	require.NoError(t, err)
	assert.False(t, ok)

	for _, capability := range service.RecipeCapabilities {
		ok, err = auth.HasCapability(ctx, admin.ID, capability)
		require.NoError(t, err)
		assert.True(t, ok, capability)
	}

	ok, err = auth.HasCapability(ctx, uuid.New(), service.CapabilityAddRecipe)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", cook.ID).Update("is_active", false).Error)
	ok, err = auth.HasCapability(ctx, cook.ID, service.CapabilityAddRecipe)
	require.NoError(t, err)
	assert.False(t, ok)
}
