package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) GetAssetDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	log.Printf("getting entry in cache for asset #%s...", id)
	return c.get(ctx, getCacheKey(id.String(), false))
}

func (c *Cache) GetEtagAssetDetails(ctx context.Context, id uuid.UUID) (string, error) {
	val, err := c.get(ctx, getCacheKey(id.String(), true))
	return string(val), err
}

func (c *Cache) SetAssetDetails(ctx context.Context, id uuid.UUID, data []byte) {
	log.Printf("creating entry in cache for asset #%s, valid for %s...", id, c.ttl)
	c.set(ctx, getCacheKey(id.String(), false), data)
}

func (c *Cache) SetEtagAssetDetails(ctx context.Context, id uuid.UUID, etag string) {
	c.set(ctx, getCacheKey(id.String(), true), []byte(etag))
}

func (c *Cache) DeleteAssetDetails(ctx context.Context, id uuid.UUID) error {
	log.Printf("deleting entry in cache for asset #%s...", id)
	return c.del(ctx, getCacheKey(id.String(), false))
}

func (c *Cache) DeleteEtagAssetDetails(ctx context.Context, id uuid.UUID) error {
	return c.del(ctx, getCacheKey(id.String(), true))
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// set is best-effort: a failed write only costs a future cache miss.
func (c *Cache) set(ctx context.Context, key string, data []byte) {
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("redis set failed for %q: %v", key, err)
	}
}

func (c *Cache) del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(id string, etag bool) string {
	if etag {
		return "etag:asset:" + id
	}
	return "asset:" + id
}
