package profile

import (
	"context"
	"testing"
	"time"

	"carrental/internal/domain/access"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMockCmdable()
	cache := &redisCache{store: store, ttl: time.Minute}
	p := &Profile{ID: uuid.New(), FullName: "Grace", Role: access.RoleAdmin}

	miss, err := cache.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, cache.Set(ctx, p))
	hit, err := cache.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, access.RoleAdmin, hit.Role)

	require.NoError(t, cache.Delete(ctx, p.ID))
	assert.False(t, store.has(cacheKey(p.ID)))
}

func TestRedisCacheDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	store := newMockCmdable()
	cache := &redisCache{store: store, ttl: time.Minute}
	id := uuid.New()
	store.data[cacheKey(id)] = "{not json"

	got, err := cache.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, store.has(cacheKey(id)))
}
