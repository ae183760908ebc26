package car

import (
	"net/http"

	"carrental/internal/domain/pricing"
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
		response.Error(c, apperr.New(apperr.CodeValidation, "invalid car id"))
		return uuid.Nil, false
	}
	return id, true
}

// Submit handles POST /api/v1/owner/cars
func (h *Handler) Submit(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	var req SubmitListingRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	car, err := h.service.SubmitListing(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, car)
}

// ListMine handles GET /api/v1/owner/cars
func (h *Handler) ListMine(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	cars, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cars)
}

// List handles GET /api/v1/cars?status=&type=&make=
func (h *Handler) List(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	var q ListQuery
	_ = c.ShouldBindQuery(&q)
	cars, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cars)
}

// Get handles GET /api/v1/cars/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	car, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, car)
}

// Quote handles GET /api/v1/cars/:id/quote
func (h *Handler) Quote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var terms pricing.Terms
	_ = c.ShouldBindQuery(&terms)
	quote, err := h.service.Quote(c.Request.Context(), id, terms)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, quote)
}

// AddPhotos handles POST /api/v1/owner/cars/:id/photos
func (h *Handler) AddPhotos(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AddPhotosRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	car, err := h.service.AddPhotos(c.Request.Context(), actor, id, req.Photos)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, car)
}

// ListPending handles GET /api/v1/admin/cars/pending
func (h *Handler) ListPending(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	cars, err := h.service.ListPending(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cars)
}

func (h *Handler) Approve(c *gin.Context)           { h.changeStatus(c, h.service.Approve) }
func (h *Handler) Reject(c *gin.Context)            { h.changeStatus(c, h.service.Reject) }
func (h *Handler) SendToMaintenance(c *gin.Context) { h.changeStatus(c, h.service.SendToMaintenance) }
func (h *Handler) ReturnToService(c *gin.Context)   { h.changeStatus(c, h.service.ReturnToService) }

func (h *Handler) changeStatus(c *gin.Context, op statusOp) {
	actor, _ := middleware.CurrentActor(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	car, err := op(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, car)
}
