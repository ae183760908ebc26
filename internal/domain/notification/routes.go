package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the caller's notification inbox.
func RegisterRoutes(protected *gin.RouterGroup, handler *Handler) {
	notifGroup := protected.Group("/notifications")
	{
		notifGroup.GET("", handler.List)
		notifGroup.POST("/read-all", handler.MarkAllRead)
		notifGroup.POST("/:id/read", handler.MarkRead)
	}
}
