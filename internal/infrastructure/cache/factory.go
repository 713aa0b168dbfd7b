package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erpbridge/backend/internal/domain/warehouse"
	"github.com/erpbridge/backend/internal/infrastructure/config"
)

// WarehouseCacheFactory creates warehouse-existence caches based on configuration
type WarehouseCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WarehouseCacheFactoryOption is a functional option for configuring the factory
type WarehouseCacheFactoryOption func(*WarehouseCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) WarehouseCacheFactoryOption {
	return func(f *WarehouseCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) WarehouseCacheFactoryOption {
	return func(f *WarehouseCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewWarehouseCacheFactory creates a new factory
func NewWarehouseCacheFactory(cfg config.RedisConfig, ttl time.Duration, opts ...WarehouseCacheFactoryOption) *WarehouseCacheFactory {
	f := &WarehouseCacheFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis-backed warehouse cache
func (f *WarehouseCacheFactory) CreateRedisCache() (warehouse.ExistenceCache, error) {
	cache, err := NewRedisWarehouseCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis warehouse cache: %w", err)
	}
	return cache, nil
}

// CreateInMemoryCache creates an in-memory warehouse cache.
// WARNING: in-memory caches do not share state across process instances;
// other instances will re-check existence against the ERP, which is
// correct but slower.
func (f *WarehouseCacheFactory) CreateInMemoryCache() warehouse.ExistenceCache {
	return NewInMemoryWarehouseCache(f.ttl)
}

// CreateCache creates a cache based on whether Redis is enabled and
// reachable, falling back to in-memory when allowed.
func (f *WarehouseCacheFactory) CreateCache() (warehouse.ExistenceCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory warehouse cache")
		return f.CreateInMemoryCache(), nil
	}

	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis warehouse cache",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port))
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory warehouse cache", zap.Error(err))
	return f.CreateInMemoryCache(), nil
}
