package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// InternalTokenAuth guards operator endpoints such as /metrics with a static
// bearer token and an optional client IP allow-list. An empty token disables
// the endpoint.
func InternalTokenAuth(token string, allowedIPs []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			response.CustomError(c, http.StatusForbidden, "AUTH_INVALID", "Internal endpoint disabled")
			c.Abort()
			return
		}

		if !ipAllowed(c.ClientIP(), allowedIPs) {
			response.CustomError(c, http.StatusForbidden, "AUTH_INVALID", "IP not allowed")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.CustomError(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.CustomError(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			response.CustomError(c, http.StatusForbidden, "AUTH_INVALID", "Invalid internal token")
			c.Abort()
			return
		}

		c.Next()
	}
}

func ipAllowed(clientIP string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, ip := range allowed {
		if strings.TrimSpace(ip) == clientIP {
			return true
		}
	}
	return false
}
