package profile

import (
	"net/http"

	"carrental/internal/domain/access"
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

var errUnauthenticated = apperr.New(apperr.CodeUnauthorized, "authentication required")

// CreateMe handles POST /api/v1/profiles/me
func (h *Handler) CreateMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, errUnauthenticated)
		return
	}
	var req CreateProfileRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, created, err := h.service.Ensure(c.Request.Context(), userID, middleware.CurrentEmail(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, p)
}

// GetMe handles GET /api/v1/profiles/me
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, errUnauthenticated)
		return
	}
	p, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// UpdateMe handles PATCH /api/v1/profiles/me
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, errUnauthenticated)
		return
	}
	var req UpdateProfileRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.UpdateContact(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Access handles GET /api/v1/access and reports the caller's capabilities.
func (h *Handler) Access(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, errUnauthenticated)
		return
	}
	caps := make(map[access.Capability]bool, len(access.Capabilities()))
	for _, capability := range access.Capabilities() {
		caps[capability] = actor.Can(capability)
	}
	response.Success(c, http.StatusOK, gin.H{
		"user_id":      actor.UserID,
		"role":         actor.Role,
		"capabilities": caps,
		"landing_page": access.LandingPage(actor.Role),
	})
}

// ListUsers handles GET /api/v1/admin/users?role=
func (h *Handler) ListUsers(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	out, err := h.service.List(c.Request.Context(), actor, c.Query("role"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ChangeRole handles PATCH /api/v1/admin/users/:id/role
func (h *Handler) ChangeRole(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.New(apperr.CodeValidation, "invalid user id"))
		return
	}
	var req ChangeRoleRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	p, err := h.service.ChangeRole(c.Request.Context(), actor, targetID, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// ListServiceStaff handles GET /api/v1/service/staff
func (h *Handler) ListServiceStaff(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	out, err := h.service.ListServiceStaff(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}
