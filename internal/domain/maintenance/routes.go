package maintenance

import (
	"carrental/internal/domain/access"
	"carrental/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts maintenance routes on a group that already ran LoadProfile.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	service := r.Group("/service", middleware.RequireCapability(access.CapManageMaintenance))
	{
		service.POST("/maintenance", h.Schedule)
		service.GET("/maintenance", h.List)
		service.PATCH("/maintenance/:id/log", h.Log)
		service.POST("/logs", h.LogNew)

		service.GET("/invoices", h.ListInvoices)
		service.GET("/invoices/candidates", h.Candidates)
		service.POST("/invoices", h.GenerateInvoice)
		service.POST("/invoices/:number/pay", h.MarkPaid)
	}

	r.GET("/owner/maintenance", middleware.RequireCapability(access.CapOwnerPortal), h.ListForOwner)
}
