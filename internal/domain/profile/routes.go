package profile

import (
	"carrental/internal/domain/access"
	"carrental/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterIdentityRoutes mounts routes that need a verified identity but no profile yet.
func RegisterIdentityRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/profiles/me", h.CreateMe)
	r.GET("/profiles/me", h.GetMe)
}

// RegisterRoutes mounts routes that run after LoadProfile.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.PATCH("/profiles/me", h.UpdateMe)
	r.GET("/access", h.Access)

	admin := r.Group("/admin/users", middleware.RequireCapability(access.CapManageUsers))
	{
		admin.GET("", h.ListUsers)
		admin.PATCH("/:id/role", h.ChangeRole)
	}

	r.GET("/service/staff", middleware.RequireCapability(access.CapViewAssignedStaff), h.ListServiceStaff)
}
