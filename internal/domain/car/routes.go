package car

import (
	"context"

	"carrental/internal/domain/access"
	"carrental/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type statusOp func(ctx context.Context, actor access.Actor, id uuid.UUID) (*Car, error)

// RegisterRoutes mounts car routes on a group that already ran LoadProfile.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	browse := r.Group("/cars", middleware.RequireCapability(access.CapCustomerPortal))
	{
		browse.GET("", h.List)
		browse.GET("/:id", h.Get)
		browse.GET("/:id/quote", h.Quote)
	}

	owner := r.Group("/owner/cars", middleware.RequireCapability(access.CapOwnerPortal))
	{
		owner.POST("", h.Submit)
		owner.GET("", h.ListMine)
		owner.POST("/:id/photos", h.AddPhotos)
	}

	admin := r.Group("/admin/cars", middleware.RequireCapability(access.CapApproveCars))
	{
		admin.GET("/pending", h.ListPending)
		admin.POST("/:id/approve", h.Approve)
		admin.POST("/:id/reject", h.Reject)
	}

	service := r.Group("/service/cars", middleware.RequireCapability(access.CapServicePortal))
	{
		service.GET("", h.List)
		service.POST("/:id/maintenance", h.SendToMaintenance)
		service.POST("/:id/available", h.ReturnToService)
	}
}
