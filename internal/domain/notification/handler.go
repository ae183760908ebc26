package notification

import (
	"net/http"

	"carrental/internal/middleware"
	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/v1/notifications?limit=&unread_only=
func (h *Handler) List(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	var q ListQuery
	_ = c.ShouldBindQuery(&q)
	out, err := h.service.ListMine(c.Request.Context(), userID, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.New(apperr.CodeValidation, "invalid notification id"))
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if err := h.service.MarkRead(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": StatusRead})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	n, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}
