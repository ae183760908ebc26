package maintenance

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

// Schedule handles POST /api/v1/service/maintenance
func (h *Handler) Schedule(c *gin.Context) {
	var req ScheduleRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	rec, err := h.service.Schedule(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// LogNew handles POST /api/v1/service/logs
func (h *Handler) LogNew(c *gin.Context) {
	var req LogServiceRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	rec, err := h.service.LogService(c.Request.Context(), actor, nil, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// Log handles PATCH /api/v1/service/maintenance/:id/log
func (h *Handler) Log(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.New(apperr.CodeValidation, "invalid maintenance id"))
		return
	}
	var req LogServiceRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	rec, err := h.service.LogService(c.Request.Context(), actor, &id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// List handles GET /api/v1/service/maintenance?car_id=&type=&status=
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	_ = c.ShouldBindQuery(&q)
	actor, _ := middleware.CurrentActor(c)
	out, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ListForOwner handles GET /api/v1/owner/maintenance
func (h *Handler) ListForOwner(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	out, err := h.service.ListForOwner(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// Candidates handles GET /api/v1/service/invoices/candidates
func (h *Handler) Candidates(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	out, err := h.service.ListUninvoiced(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ListInvoices handles GET /api/v1/service/invoices?search=
func (h *Handler) ListInvoices(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	out, err := h.service.ListInvoices(c.Request.Context(), actor, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// GenerateInvoice handles POST /api/v1/service/invoices
func (h *Handler) GenerateInvoice(c *gin.Context) {
	var req GenerateInvoiceRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	actor, _ := middleware.CurrentActor(c)
	res, err := h.service.GenerateInvoice(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondBatch(c, res.Batch, res)
}

// MarkPaid handles POST /api/v1/service/invoices/:number/pay
func (h *Handler) MarkPaid(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	res, err := h.service.MarkInvoicePaid(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondBatch(c, res.Batch, res)
}

// respondBatch maps per-record outcomes to 200, 207 or 502.
func respondBatch(c *gin.Context, b BatchResult, payload any) {
	switch {
	case b.AllFailed():
		response.ErrorWithDetails(c, http.StatusBadGateway, string(apperr.CodeBackend), "no records were updated", payload)
	case b.Failed > 0:
		response.Error(c, apperr.New(apperr.CodePartialFailure, "some records were not updated").WithDetails(payload))
	default:
		response.Success(c, http.StatusOK, payload)
	}
}
