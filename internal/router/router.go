package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/api"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/service"
)

// Dependencies are the collaborators the routes are wired to. Metrics and
// RateLimiter are optional.
type Dependencies struct {
	Logger        *zap.Logger
	AuthService   service.IAuthService
	RecipeHandler *api.RecipeHandler
	AuthHandler   *api.AuthHandler
	HealthHandler *api.HealthHandler
	Metrics       *middleware.Metrics
	RateLimiter   *middleware.RateLimiter
	CORSOrigins   []string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
	)
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", deps.Metrics.Handler())
	}
	if len(deps.CORSOrigins) > 0 {
		router.Use(middleware.CORS(deps.CORSOrigins))
	}
	router.Use(middleware.ErrorHandler(deps.Logger))
	router.NoRoute(middleware.NoRoute)
	router.NoMethod(middleware.NoMethod)

	router.GET("/", api.APIRoot)

	if deps.HealthHandler != nil {
		router.GET("/health", deps.HealthHandler.HealthCheck)
	}

	if deps.AuthHandler != nil {
		router.POST("/auth/token/", deps.AuthHandler.Login)
	}

	recipes := router.Group("/recipes")
	recipes.Use(middleware.Authenticate(deps.AuthService))
	{
		h := deps.RecipeHandler
		recipes.GET("/", read(deps, h.ListRecipes)...)
		recipes.GET("/:id/", read(deps, h.GetRecipe)...)
		recipes.POST("/", guard(deps, service.CapabilityAddRecipe, h.CreateRecipe)...)
		recipes.PATCH("/:id/", guard(deps, service.CapabilityChangeRecipe, h.UpdateRecipe)...)
		recipes.PUT("/:id/", guard(deps, service.CapabilityChangeRecipe, h.ReplaceRecipe)...)
		recipes.DELETE("/:id/", guard(deps, service.CapabilityDeleteRecipe, h.DeleteRecipe)...)
	}

	return router
}

// read attaches the caller's remaining write budget to safe requests when
// rate limiting is configured.
func read(deps Dependencies, h gin.HandlerFunc) []gin.HandlerFunc {
	if deps.RateLimiter == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{deps.RateLimiter.Headers(), h}
}

// guard prefixes a mutating handler with its capability check and, when
// configured, the write rate limit.
func guard(deps Dependencies, capability string, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.RequireCapability(deps.AuthService, capability)}
	if deps.RateLimiter != nil {
		chain = append(chain, deps.RateLimiter.Middleware())
	}
	return append(chain, h)
}
