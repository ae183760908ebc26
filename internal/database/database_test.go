package database

import (
	"context"
	"fmt"
	"testing"

	"carrental/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://u@h/db"))
	assert.True(t, isPostgres("postgresql://u@h/db"))
	assert.False(t, isPostgres("file:carrental.db?cache=shared"))
}

func TestConnectSQLiteInMemory(t *testing.T) {
	dsn := fmt.Sprintf("file:database_test_%s?mode=memory&cache=shared", t.Name())
	db, err := Connect(context.Background(), dsn, logger.Nop())
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
