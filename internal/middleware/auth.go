package middleware

import (
	"net/http"
	"strings"

	"carrental/internal/pkg/jwt"
	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JWTAuth verifies the bearer token and stores the caller's identity.
// It never trusts a role from the token; see LoadProfile.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithDetails(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required", gin.H{"redirect": "/auth"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.ErrorWithDetails(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'", gin.H{"redirect": "/auth"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.ErrorWithDetails(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", gin.H{"redirect": "/auth"})
			c.Abort()
			return
		}
		userID, err := claims.UserID()
		if err != nil || userID == uuid.Nil {
			response.ErrorWithDetails(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token subject is not a user id", gin.H{"redirect": "/auth"})
			c.Abort()
			return
		}

		SetIdentity(c, userID, "")
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}
