package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
}

func (v stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.claims, nil
}

type stubChecker map[uuid.UUID][]string

func (s stubChecker) HasCapability(_ context.Context, userID uuid.UUID, capability string) (bool, error) {
	for _, c := range s[userID] {
		if c == capability {
			return true, nil
		}
	}
	return false, nil
}

func newAuthRouter(validator TokenValidator, checker CapabilityChecker) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler(zap.NewNop()), Authenticate(validator))
	router.GET("/open", func(c *gin.Context) {
		_, ok := UserID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	router.POST("/guarded", RequireCapability(checker, "recipes.add_recipe"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func TestAuthenticateAndRequireCapability(t *testing.T) {
	allowed := uuid.New()
	denied := uuid.New()
	checker := stubChecker{allowed: {"recipes.add_recipe"}}

	tests := []struct {
		name     string
		method   string
		path     string
		header   string
		userID   uuid.UUID
		wantCode int
	}{
		{"anonymous read", http.MethodGet, "/open", "", uuid.Nil, http.StatusOK},
		{"malformed header", http.MethodGet, "/open", "Token abc", uuid.Nil, http.StatusUnauthorized},
		{"invalid token", http.MethodGet, "/open", "Bearer nope", allowed, http.StatusUnauthorized},
		{"anonymous write", http.MethodPost, "/guarded", "", uuid.Nil, http.StatusUnauthorized},
		{"missing capability", http.MethodPost, "/guarded", "Bearer good", denied, http.StatusForbidden},
		{"has capability", http.MethodPost, "/guarded", "Bearer good", allowed, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(stubValidator{claims: &types.TokenClaims{UserID: tt.userID}}, checker)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(zap.NewNop()))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(contextRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rr.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestMetricsRecordsRoute(t *testing.T) {
	m := NewMetrics("test")
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", m.Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `test_http_requests_total{method="GET",route="/items/:id",status="200"} 1`)
}
