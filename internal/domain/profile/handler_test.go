package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carrental/internal/domain/access"
	"carrental/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(NewRepository(setupDB(t)), nil, nil)
	h := NewHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-Test-User-ID")); err == nil {
			middleware.SetIdentity(c, id, "")
		}
		c.Next()
	})
	RegisterIdentityRoutes(api, h)
	loaded := api.Group("", middleware.LoadProfile(svc))
	RegisterRoutes(loaded, h)
	return r, svc
}

func doJSONRequest(t *testing.T, r http.Handler, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("X-Test-User-ID", userID.String())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateThenAccessSummary(t *testing.T) {
	r, _ := setupRouter(t)
	userID := uuid.New()

	w := doJSONRequest(t, r, http.MethodGet, "/api/v1/access", userID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PROFILE_NOT_FOUND")

	w = doJSONRequest(t, r, http.MethodPost, "/api/v1/profiles/me", userID, gin.H{"full_name": "Olu", "role": "CarOwner"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSONRequest(t, r, http.MethodGet, "/api/v1/access", userID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Role         string          `json:"role"`
			LandingPage  string          `json:"landing_page"`
			Capabilities map[string]bool `json:"capabilities"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CarOwner", body.Data.Role)
	assert.Equal(t, "/owner/dashboard", body.Data.LandingPage)
	assert.True(t, body.Data.Capabilities[string(access.CapOwnerPortal)])
	assert.False(t, body.Data.Capabilities[string(access.CapAdminPortal)])
}

func TestCreateValidation(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSONRequest(t, r, http.MethodPost, "/api/v1/profiles/me", uuid.New(), gin.H{"role": "Customer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestAdminUsersGate(t *testing.T) {
	r, svc := setupRouter(t)
	customer := seedProfile(t, svc, access.RoleCustomer)
	admin := seedProfile(t, svc, access.RoleAdmin)
	super := seedProfile(t, svc, access.RoleSuperAdmin)

	w := doJSONRequest(t, r, http.MethodGet, "/api/v1/admin/users", customer.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "/dashboard")

	w = doJSONRequest(t, r, http.MethodGet, "/api/v1/admin/users?role=Customer", admin.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSONRequest(t, r, http.MethodGet, "/api/v1/admin/users?role=Customer", super.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), customer.ID.String())

	path := "/api/v1/admin/users/" + customer.ID.String() + "/role"
	w = doJSONRequest(t, r, http.MethodPatch, path, admin.ID, gin.H{"role": "Admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSONRequest(t, r, http.MethodPatch, path, super.ID, gin.H{"role": "SupportStaff"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SupportStaff")
}

func TestUnauthenticatedCreate(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSONRequest(t, r, http.MethodPost, "/api/v1/profiles/me", uuid.Nil, gin.H{"full_name": "Nobody"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
