package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"carrental/internal/pkg/logger"
	"carrental/internal/pkg/metrics"
	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger attaches a request id to the request context, recovers
// panics, and logs failed requests.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := requestID(c)
		c.Header("X-Request-ID", reqID)
		ctx := log.WithRequestID(c.Request.Context(), reqID)
		c.Request = c.Request.WithContext(ctx)

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error(requestContext(c, log, start), "panic", fmt.Errorf("%v", recovered))
				response.CustomError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				c.Abort()
			}
			m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status())
		}()

		c.Next()

		if len(c.Errors) > 0 {
			rctx := requestContext(c, log, start)
			for _, err := range c.Errors {
				log.Error(rctx, "request_error", err.Err)
			}
			return
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn(requestContext(c, log, start), "http_error", nil)
		}
	}
}

func requestContext(c *gin.Context, log *logger.Logger, start time.Time) context.Context {
	fields := map[string]any{
		"status":    c.Writer.Status(),
		"method":    c.Request.Method,
		"path":      c.Request.URL.Path,
		"client_ip": c.ClientIP(),
		"latency":   time.Since(start).String(),
	}
	userID, _ := CurrentUserID(c)
	role, _ := CurrentRole(c)
	return log.WithActor(log.WithFields(c.Request.Context(), fields), userID, string(role))
}

func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	return id
}
