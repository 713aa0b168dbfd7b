package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWarehouseCache shares warehouse-existence knowledge across
// process instances. Only positive existence is stored; a miss always
// falls through to the ERP.
type RedisWarehouseCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisWarehouseCache creates a Redis-backed cache and verifies the
// connection before returning.
func NewRedisWarehouseCache(cfg RedisConfig, ttl time.Duration) (*RedisWarehouseCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisWarehouseCache{
		client:    client,
		keyPrefix: "warehouse:exists:",
		ttl:       ttl,
	}, nil
}

// NewRedisWarehouseCacheWithClient creates a cache with an existing
// client. Useful for testing or sharing a client across components.
func NewRedisWarehouseCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisWarehouseCache {
	if keyPrefix == "" {
		keyPrefix = "warehouse:exists:"
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisWarehouseCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RedisWarehouseCache) key(company, canonicalName string) string {
	return c.keyPrefix + company + "|" + canonicalName
}

// Contains reports whether the warehouse is known to exist
func (c *RedisWarehouseCache) Contains(ctx context.Context, company, canonicalName string) (bool, error) {
	exists, err := c.client.Exists(ctx, c.key(company, canonicalName)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check warehouse cache: %w", err)
	}
	return exists > 0, nil
}

// Add records that the warehouse exists, with the configured TTL
func (c *RedisWarehouseCache) Add(ctx context.Context, company, canonicalName string) error {
	if err := c.client.Set(ctx, c.key(company, canonicalName), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to record warehouse existence: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisWarehouseCache) Close() error {
	return c.client.Close()
}
