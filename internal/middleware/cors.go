package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS applies the API's origin policy. Local dev origins are always allowed.
// Preflight requests are answered here and never reach the auth chain.
func CORS(extraOrigins []string) gin.HandlerFunc {
	origins := append([]string{}, devOrigins...)
	for _, o := range extraOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	policy := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Requested-With"},
		// clients back off on PROFILE_PENDING using Retry-After
		ExposedHeaders:   []string{"Retry-After", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	return func(c *gin.Context) {
		passed := false
		policy.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)

		// the policy answered a preflight; gin has not flushed the status yet
		if !passed {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
