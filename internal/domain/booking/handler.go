package booking

import (
	"net/http"

	"carrental/internal/middleware"
	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/response"
	"carrental/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.New(apperr.CodeValidation, "invalid booking id"))
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/v1/bookings
func (h *Handler) Create(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	var req CreateBookingRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	res, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// ListMine handles GET /api/v1/bookings/mine
func (h *Handler) ListMine(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	out, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ListForOwner handles GET /api/v1/owner/bookings
func (h *Handler) ListForOwner(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	out, err := h.service.ListForOwner(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// List handles GET /api/v1/admin/bookings?status=&payment_status=&car_id=
func (h *Handler) List(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	var q ListQuery
	_ = c.ShouldBindQuery(&q)
	out, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	b, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// SetStatus handles PATCH /api/v1/admin/bookings/:id/status
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	b, err := h.service.SetStatus(c.Request.Context(), actor, id, Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Approve(c *gin.Context) {
	h.fixedStatus(c, StatusApproved)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.fixedStatus(c, StatusCancelled)
}

func (h *Handler) fixedStatus(c *gin.Context, to Status) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	b, err := h.service.SetStatus(c.Request.Context(), actor, id, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// SetPaymentStatus handles PATCH /api/v1/admin/bookings/:id/payment
func (h *Handler) SetPaymentStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req SetPaymentStatusRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	b, err := h.service.SetPaymentStatus(c.Request.Context(), actor, id, PaymentStatus(req.PaymentStatus))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// ReportIncident handles POST /api/v1/bookings/:id/incident
func (h *Handler) ReportIncident(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ReportIncidentRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	b, err := h.service.ReportIncident(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// SetIncidentStatus handles PATCH /api/v1/admin/bookings/:id/incident
func (h *Handler) SetIncidentStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	b, err := h.service.SetIncidentStatus(c.Request.Context(), actor, id, IncidentStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}
