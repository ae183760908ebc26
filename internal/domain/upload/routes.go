package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the upload endpoints. Any signed-in profile may upload.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	uploads := r.Group("/uploads")
	{
		uploads.POST("", h.Upload)
		uploads.GET("", h.ListMine)
		uploads.GET("/:id", h.Get)
		uploads.DELETE("/:id", h.Delete)
	}
}
