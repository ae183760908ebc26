package middleware

import (
	"context"
	"net/http"

	"carrental/internal/domain/access"
	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleResolver looks up the authoritative role for a user.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID uuid.UUID) (access.Role, error)
}

// LoadProfile resolves the caller's role from the profile store.
func LoadProfile(resolver RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			response.Error(c, apperr.New(apperr.CodeUnauthorized, "authentication required"))
			c.Abort()
			return
		}
		role, err := resolver.ResolveRole(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ctxRole, role)
		c.Next()
	}
}

// RequireCapability applies the access policy to a route group.
func RequireCapability(capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch access.Evaluate(subject(c), capability) {
		case access.DecisionAllow:
			c.Next()
			return
		case access.DecisionUnauthenticated:
			response.Error(c, apperr.New(apperr.CodeUnauthorized, "authentication required"))
		case access.DecisionPending:
			c.Header("Retry-After", "1")
			response.CustomError(c, http.StatusServiceUnavailable, "PROFILE_PENDING", "profile is still loading")
		default:
			response.Error(c, apperr.New(apperr.CodeForbidden, "Access denied: insufficient permissions"))
		}
		c.Abort()
	}
}
