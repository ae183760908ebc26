package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"carrental/internal/database"
	"carrental/internal/middleware"
	"carrental/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:notification_test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&Notification{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(NewRepository(db))
}

func TestNotifyAndRead(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	staff := uuid.New()
	other := uuid.New()

	require.NoError(t, svc.Notify(ctx, staff, uuid.New(), "Oil change scheduled"))
	require.NoError(t, svc.Notify(ctx, staff, uuid.New(), "Brake inspection scheduled"))
	require.NoError(t, svc.Notify(ctx, other, uuid.New(), "Tyre rotation scheduled"))

	inbox, err := svc.ListMine(ctx, staff, ListQuery{})
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 2)
	assert.Equal(t, int64(2), inbox.UnreadCount)

	first := inbox.Notifications[0].ID
	err = svc.MarkRead(ctx, other, first)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	require.NoError(t, svc.MarkRead(ctx, staff, first))
	inbox, err = svc.ListMine(ctx, staff, ListQuery{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, inbox.Notifications, 1)
	assert.Equal(t, int64(1), inbox.UnreadCount)

	n, err := svc.MarkAllRead(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	theirs, err := svc.ListMine(ctx, other, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), theirs.UnreadCount)
}

func TestInboxRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := setupService(t)
	staff := uuid.New()
	require.NoError(t, svc.Notify(context.Background(), staff, uuid.New(), "Inspection scheduled"))

	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		middleware.SetIdentity(c, staff, "")
		c.Next()
	})
	RegisterRoutes(api, NewHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread_count":1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/notifications/not-a-uuid/read", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+uuid.NewString()+"/read", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
