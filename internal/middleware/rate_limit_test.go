package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// setupRedis starts a throwaway Redis container.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiterWindow(t *testing.T) {
	client := setupRedis(t)
	rl := NewRecipeMutationRateLimiter(client, 2)
	ctx := context.Background()

	remaining, _, err := rl.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	for i, want := range []bool{true, true, false} {
		allowed, _, _, err := rl.IsAllowed(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, want, allowed, "request %d", i+1)
	}

	remaining, reset, err := rl.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))
}

func TestRateLimiterMiddleware(t *testing.T) {
	client := setupRedis(t)
	rl := NewRecipeMutationRateLimiter(client, 1)
	userID := uuid.New()

	router := gin.New()
	router.Use(ErrorHandler(zap.NewNop()))
	router.POST("/", func(c *gin.Context) {
		c.Set(contextUserID, userID)
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestRateLimiterHeadersDoNotConsume(t *testing.T) {
	client := setupRedis(t)
	rl := NewRecipeMutationRateLimiter(client, 3)
	userID := uuid.New()

	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		c.Set(contextUserID, userID)
	}, rl.Headers(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/anonymous", rl.Headers(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "3", rr.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "3", rr.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Reset"))
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/anonymous", nil))
	assert.Empty(t, rr.Header().Get("X-RateLimit-Remaining"))
}
