package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appstorefront "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// defaultPublishedConfigTTL bounds staleness if an invalidation is ever
// lost; publishes rewrite the key immediately anyway.
const defaultPublishedConfigTTL = 24 * time.Hour

// RedisPublishedConfigCache caches the live published configuration per
// (store, page type) scope in Redis. Suitable for distributed deployments
// where multiple instances serve storefront reads.
type RedisPublishedConfigCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisPublishedConfigCache connects to Redis and returns a cache
func NewRedisPublishedConfigCache(cfg config.RedisConfig) (*RedisPublishedConfigCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublishedConfigCache{
		client:    client,
		keyPrefix: "storefront:published:",
		ttl:       defaultPublishedConfigTTL,
	}, nil
}

// NewRedisPublishedConfigCacheWithClient creates a cache with an existing
// Redis client. Useful for testing or when sharing a client across components.
func NewRedisPublishedConfigCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisPublishedConfigCache {
	if keyPrefix == "" {
		keyPrefix = "storefront:published:"
	}
	if ttl == 0 {
		ttl = defaultPublishedConfigTTL
	}
	return &RedisPublishedConfigCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisPublishedConfigCache) key(storeID uuid.UUID, pageType string) string {
	return c.keyPrefix + storeID.String() + ":" + pageType
}

// Get returns the cached configuration for the scope, or ErrCacheMiss
func (c *RedisPublishedConfigCache) Get(ctx context.Context, storeID uuid.UUID, pageType string) (string, error) {
	value, err := c.client.Get(ctx, c.key(storeID, pageType)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", appstorefront.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to read published config from cache: %w", err)
	}
	return value, nil
}

// Set stores the configuration for the scope
func (c *RedisPublishedConfigCache) Set(ctx context.Context, storeID uuid.UUID, pageType string, configuration string) error {
	if err := c.client.Set(ctx, c.key(storeID, pageType), configuration, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write published config to cache: %w", err)
	}
	return nil
}

// Delete removes the cached configuration for the scope
func (c *RedisPublishedConfigCache) Delete(ctx context.Context, storeID uuid.UUID, pageType string) error {
	if err := c.client.Del(ctx, c.key(storeID, pageType)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate published config cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisPublishedConfigCache) Close() error {
	return c.client.Close()
}

// Ensure RedisPublishedConfigCache implements PublishedConfigCache
var _ appstorefront.PublishedConfigCache = (*RedisPublishedConfigCache)(nil)
