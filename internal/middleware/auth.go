package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipebook/backend/internal/types"
)

const (
	contextUserID   = "user_id"
	contextUsername = "username"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// CapabilityChecker answers whether a user holds a named capability
type CapabilityChecker interface {
	HasCapability(ctx context.Context, userID uuid.UUID, capability string) (bool, error)
}

// Authenticate resolves an optional bearer token. Requests without an
// Authorization header continue anonymously; a malformed header or an
// invalid token is rejected with 401.
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			_ = c.Error(ErrMalformedAuthHeader)
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(ErrUnauthenticated)
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextUsername, claims.Username)
		c.Next()
	}
}

// RequireCapability rejects anonymous callers with 401 and callers lacking
// capability with 403.
func RequireCapability(checker CapabilityChecker, capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			_ = c.Error(ErrUnauthenticated)
			c.Abort()
			return
		}

		allowed, err := checker.HasCapability(c.Request.Context(), userID, capability)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !allowed {
			_ = c.Error(ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// UserID returns the authenticated user's id, if any
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(contextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
