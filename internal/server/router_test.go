package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carrental/internal/config"
	"carrental/internal/database"
	"carrental/internal/domain/access"
	"carrental/internal/domain/profile"
	"carrental/internal/pkg/jwt"
	"carrental/internal/pkg/metrics"
	"carrental/internal/schema"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	router http.Handler
	db     *gorm.DB
	jwt    *jwt.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:server_test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, schema.Migrate(db))

	cfg := &config.Config{
		UploadDir:         t.TempDir(),
		UploadURLBase:     "/static/uploads",
		ProfileCacheTTL:   time.Minute,
		StrictTransitions: true,
		MetricsToken:      "scrape-me",
	}
	reg := prometheus.NewRegistry()
	j := jwt.New("test-secret", time.Hour)

	return &testApp{
		router: NewRouter(Deps{
			Config:   cfg,
			DB:       db,
			Metrics:  metrics.New(reg),
			Gatherer: reg,
			JWT:      j,
		}),
		db:  db,
		jwt: j,
	}
}

func (a *testApp) token(t *testing.T, id uuid.UUID) string {
	t.Helper()
	tok, err := a.jwt.GenerateToken(id, id.String()+"@example.com")
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func dataID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotEmpty(t, resp.Data.ID, w.Body.String())
	return resp.Data.ID
}

func TestRentalFlowThroughRouter(t *testing.T) {
	app := newTestApp(t)

	ownerTok := app.token(t, uuid.New())
	customerTok := app.token(t, uuid.New())
	adminID := uuid.New()
	adminTok := app.token(t, adminID)
	require.NoError(t, app.db.Create(&profile.Profile{ID: adminID, FullName: "Ops", Role: access.RoleAdmin}).Error)

	w := app.do(t, http.MethodPost, "/api/v1/profiles/me", ownerTok, gin.H{"full_name": "Olga Owner", "role": "CarOwner"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = app.do(t, http.MethodPost, "/api/v1/profiles/me", customerTok, gin.H{"full_name": "Carl Customer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/v1/owner/cars", ownerTok, gin.H{
		"make": "Toyota", "model": "Corolla", "year": 2021, "type": "Sedan",
		"short_term_rate": 50, "long_term_rate": 35,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	carID := dataID(t, w)

	// customers may not approve listings
	w = app.do(t, http.MethodPost, "/api/v1/admin/cars/"+carID+"/approve", customerTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(t, http.MethodPost, "/api/v1/admin/cars/"+carID+"/approve", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/v1/bookings", customerTok, gin.H{
		"car_id":          carID,
		"rental_period":   "ShortTerm",
		"start_date":      "2024-01-01",
		"end_date":        "2024-01-14",
		"delivery_option": "SelfPickup",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingID := dataID(t, w)

	w = app.do(t, http.MethodGet, "/api/v1/bookings/mine", customerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), bookingID)

	w = app.do(t, http.MethodPost, "/api/v1/admin/bookings/"+bookingID+"/approve", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// strict transitions reject a second approval
	w = app.do(t, http.MethodPost, "/api/v1/admin/bookings/"+bookingID+"/approve", adminTok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
}

func TestProfileRequiredBeforeDomainRoutes(t *testing.T) {
	app := newTestApp(t)
	tok := app.token(t, uuid.New())

	w := app.do(t, http.MethodGet, "/api/v1/cars", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/cars", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PROFILE_NOT_FOUND")
}

func TestOperatorEndpoints(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/metrics", "scrape-me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
