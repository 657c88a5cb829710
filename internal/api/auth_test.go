package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/mocks"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/testhelpers"
	"github.com/pageza/recipebook/backend/internal/types"
)

func setupAuthTestRouter(t *testing.T) (*gin.Engine, *mocks.MockAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := new(mocks.MockAuthService)
	t.Cleanup(func() { svc.AssertExpectations(t) })

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	router.POST("/auth/token/", NewAuthHandler(svc).Login)
	return router, svc
}

func TestLogin(t *testing.T) {
	router, svc := setupAuthTestRouter(t)
	expires := time.Unix(1_900_000_000, 0)
	svc.On("Login", mock.Anything, "editor", "secret").Return("signed-token", expires, nil)

	w := testhelpers.DoJSON(t, router, http.MethodPost, "/auth/token/", "", types.LoginRequest{
		Username: "editor",
		Password: "secret",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, expires.Unix(), resp.ExpiresAt)
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, svc := setupAuthTestRouter(t)
	svc.On("Login", mock.Anything, "editor", "wrong").Return("", time.Time{}, service.ErrInvalidCredentials)

	w := testhelpers.DoJSON(t, router, http.MethodPost, "/auth/token/", "", types.LoginRequest{
		Username: "editor",
		Password: "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginMissingFields(t *testing.T) {
	router, _ := setupAuthTestRouter(t)

	w := testhelpers.DoJSON(t, router, http.MethodPost, "/auth/token/", "", map[string]string{"username": "editor"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
