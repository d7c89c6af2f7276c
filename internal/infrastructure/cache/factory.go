package cache

import (
	"fmt"

	"go.uber.org/zap"

	appstorefront "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// PublishedConfigCacheFactory creates published config caches based on configuration
type PublishedConfigCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// PublishedConfigCacheFactoryOption is a functional option for configuring the factory
type PublishedConfigCacheFactoryOption func(*PublishedConfigCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) PublishedConfigCacheFactoryOption {
	return func(f *PublishedConfigCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) PublishedConfigCacheFactoryOption {
	return func(f *PublishedConfigCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPublishedConfigCacheFactory creates a new factory
func NewPublishedConfigCacheFactory(cfg config.RedisConfig, opts ...PublishedConfigCacheFactoryOption) *PublishedConfigCacheFactory {
	f := &PublishedConfigCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a published config cache, preferring Redis and
// falling back to the in-memory cache when allowed.
func (f *PublishedConfigCacheFactory) CreateCache() (appstorefront.PublishedConfigCache, error) {
	cache, err := NewRedisPublishedConfigCache(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis published config cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for published config cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory published config cache. "+
		"Publishes on one instance will not invalidate other instances.",
		zap.Error(err),
	)
	return NewInMemoryPublishedConfigCache(), nil
}
