package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 2 * time.Minute,
	}
}

// RedisCache caches the raw product configuration rows. Effective rules are
// never cached; callers resolve them from the cached overrides on every
// validation. The short TTL bounds how long catalog edits stay invisible.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, productID int64) (*domain.ProductConfig, error) {
	key := cacheKey(productID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cfg domain.ProductConfig
	if e2 := json.Unmarshal(data, &cfg); e2 != nil {
		return nil, fmt.Errorf("unmarshal product config failed: %w", e2)
	}

	return &cfg, nil
}

func (r RedisCache) Set(ctx context.Context, productID int64, cfg *domain.ProductConfig) error {
	key := cacheKey(productID)
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal product config failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Second
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, productID int64) error {
	if err := r.client.Del(ctx, cacheKey(productID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(productID int64) string {
	return fmt.Sprintf("productcfg:%d", productID)
}
