package profile

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "carrental:profile:"

// Cache holds recently resolved profiles. Get returns (nil, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*Profile, error)
	Set(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisCache struct {
	store cmdable
	ttl   time.Duration
}

// NewRedisCache caches profiles as JSON under a namespaced key.
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{store: client, ttl: ttl}
}

func cacheKey(id uuid.UUID) string {
	return cacheKeyPrefix + id.String()
}

func (c *redisCache) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	raw, err := c.store.Get(ctx, cacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// drop undecodable entries so the next read refills them
		_ = c.store.Del(ctx, cacheKey(id)).Err()
		return nil, nil
	}
	return &p, nil
}

func (c *redisCache) Set(ctx context.Context, p *Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cacheKey(p.ID), string(data), c.ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, id uuid.UUID) error {
	return c.store.Del(ctx, cacheKey(id)).Err()
}

type nopCache struct{}

func (nopCache) Get(context.Context, uuid.UUID) (*Profile, error) { return nil, nil }
func (nopCache) Set(context.Context, *Profile) error              { return nil }
func (nopCache) Delete(context.Context, uuid.UUID) error          { return nil }
