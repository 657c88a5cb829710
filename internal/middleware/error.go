package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/internal/serializer"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

var (
	ErrUnauthenticated     = errors.New("authentication credentials were not provided or are invalid")
	ErrMalformedAuthHeader = errors.New("invalid authorization header format")
	ErrForbidden           = errors.New("you do not have permission to perform this action")
	ErrBadRequest          = errors.New("bad request")
	ErrRouteNotFound       = errors.New("not found")
	ErrMethodNotAllowed    = errors.New("method not allowed")
)

// ErrorHandler renders the last error recorded with c.Error as a JSON body
// with the matching status. Handlers that already wrote a response are left
// untouched.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := Translate(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(contextRequestID)))
		}
		if status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
		}
		c.JSON(status, body)
	}
}

// NoRoute reports unknown paths through ErrorHandler
func NoRoute(c *gin.Context) {
	_ = c.Error(ErrRouteNotFound)
}

// NoMethod reports unsupported verbs on known paths through ErrorHandler
func NoMethod(c *gin.Context) {
	_ = c.Error(ErrMethodNotAllowed)
}

// Translate maps an error to an HTTP status and response body
func Translate(err error) (int, types.ErrorResponse) {
	var verr *serializer.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, types.ErrorResponse{Error: "invalid recipe payload", Fields: verr.Fields}
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, types.ErrorResponse{Error: err.Error()}
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound, types.ErrorResponse{Error: err.Error()}
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, types.ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrRecipeNotFound):
		return http.StatusNotFound, types.ErrorResponse{Error: "recipe not found"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, types.ErrorResponse{Error: err.Error()}
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrMalformedAuthHeader):
		return http.StatusUnauthorized, types.ErrorResponse{Error: err.Error()}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, types.ErrorResponse{Error: err.Error()}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, types.ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"}
	}
}
