package upload

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

type uploadResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	MimeType string    `json:"mime_type"`
	Size     int64     `json:"size"`
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperr.New(apperr.CodeValidation, "invalid upload id"))
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperr.New(apperr.CodeUnauthorized, "authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}

// Upload handles POST /api/v1/uploads (multipart field "file")
func (h *Handler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, ErrNoFile)
		return
	}
	u, err := h.service.Upload(c.Request.Context(), userID, fh)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, uploadResponse{ID: u.ID, URL: u.FileURL, MimeType: u.MimeType, Size: u.Size})
}

// ListMine handles GET /api/v1/uploads
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	uploads, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, uploads)
}

// Get handles GET /api/v1/uploads/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Delete handles DELETE /api/v1/uploads/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
