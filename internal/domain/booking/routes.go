package booking

import (
	"carrental/internal/domain/access"
	"carrental/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts booking routes on a group that already ran LoadProfile.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	customer := r.Group("/bookings", middleware.RequireCapability(access.CapCustomerPortal))
	{
		customer.POST("", middleware.RequireCapability(access.CapCreateBooking), h.Create)
		customer.GET("/mine", h.ListMine)
		customer.GET("/:id", h.Get)
		customer.POST("/:id/incident", middleware.RequireCapability(access.CapReportIncident), h.ReportIncident)
	}

	r.GET("/owner/bookings", middleware.RequireCapability(access.CapOwnerPortal), h.ListForOwner)

	admin := r.Group("/admin/bookings", middleware.RequireCapability(access.CapAdminPortal))
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PATCH("/:id/incident", h.SetIncidentStatus)

		approver := admin.Group("", middleware.RequireCapability(access.CapApproveBookings))
		approver.PATCH("/:id/status", h.SetStatus)
		approver.POST("/:id/approve", h.Approve)
		approver.POST("/:id/cancel", h.Cancel)
		approver.PATCH("/:id/payment", h.SetPaymentStatus)
	}
}
