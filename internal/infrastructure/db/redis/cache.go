package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/pkg/metrics"
)

const defaultCacheTTL = 60 * time.Second

var _ ports.Cache = (*Cache)(nil)

// Cache stores JSON snapshots in Redis. It fails open: backend errors are
// logged and reads degrade to misses.
type Cache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewCache(client *redis.Client, log zerolog.Logger) *Cache {
	return &Cache{client: client, log: log}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("get").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("cache get failed, falling back to store")
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	return true
}

// Set stores value under key. A non-positive ttl uses the 60s default.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache value not serializable")
		return
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("set").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("del").Inc()
		c.log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

func (c *Cache) FlushAll(ctx context.Context) {
	if err := c.client.FlushAll(ctx).Err(); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("flush").Inc()
		c.log.Warn().Err(err).Msg("cache flush failed")
		return
	}
	c.log.Info().Msg("cache flushed")
}
