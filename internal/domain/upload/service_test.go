package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"carrental/internal/database"
	"carrental/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")...)

func setupRouter(t *testing.T) (*gin.Engine, *Service, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:upload_test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Upload{}))

	dir := t.TempDir()
	svc := NewService(NewRepository(db), dir, "/static/uploads/", nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC) }

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-Test-User-ID")); err == nil {
			middleware.SetIdentity(c, id, "")
		}
		c.Next()
	})
	RegisterRoutes(api, NewHandler(svc))
	return r, svc, dir
}

func doUpload(t *testing.T, r http.Handler, user uuid.UUID, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if content != nil {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Test-User-ID", user.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doRequest(r http.Handler, method, path string, user uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Test-User-ID", user.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadStoresSniffedImage(t *testing.T) {
	r, _, dir := setupRouter(t)
	user := uuid.New()

	w := doUpload(t, r, user, "front view.jpeg", pngBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data uploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "image/png", resp.Data.MimeType)
	assert.True(t, strings.HasPrefix(resp.Data.URL, "/static/uploads/2024/03/07/"), resp.Data.URL)
	assert.True(t, strings.HasSuffix(resp.Data.URL, "_front_view.png"), resp.Data.URL)

	rel := strings.TrimPrefix(resp.Data.URL, "/static/uploads/")
	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	w = doRequest(r, http.MethodGet, "/api/v1/uploads/"+resp.Data.ID.String(), user)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadRejectsNonImages(t *testing.T) {
	r, _, _ := setupRouter(t)
	user := uuid.New()

	w := doUpload(t, r, user, "notes.png", []byte("just some text pretending to be a photo"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = doUpload(t, r, user, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doUpload(t, r, user, "big.png", append(pngBytes, make([]byte, MaxFileSize)...))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "maximum allowed size")
}

func TestUploadRequiresIdentity(t *testing.T) {
	r, _, _ := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/uploads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteChecksOwnership(t *testing.T) {
	r, svc, dir := setupRouter(t)
	owner := uuid.New()

	w := doUpload(t, r, owner, "dent.png", pngBytes)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data uploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id := resp.Data.ID

	w = doRequest(r, http.MethodDelete, "/api/v1/uploads/"+id.String(), uuid.New())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "OWNERSHIP")

	w = doRequest(r, http.MethodGet, "/api/v1/uploads", owner)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())

	u, err := svc.Get(t.Context(), id)
	require.NoError(t, err)

	w = doRequest(r, http.MethodDelete, "/api/v1/uploads/"+id.String(), owner)
	assert.Equal(t, http.StatusOK, w.Code)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(u.FilePath)))
	assert.True(t, os.IsNotExist(err))

	w = doRequest(r, http.MethodGet, "/api/v1/uploads/"+id.String(), owner)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
