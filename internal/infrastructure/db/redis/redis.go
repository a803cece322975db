// Package redis adapts Redis to the cache and event ports.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	connectTimeout = 5 * time.Second
	opTimeout      = time.Second
)

// Config holds connection settings. Timeout bounds the connect ping; command
// timeouts stay short so a slow server degrades into cache misses.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

func (c Config) options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  connectTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	}
}

// Connect creates a client for cfg and returns it once PING answers.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	wait := connectTimeout
	if cfg.Timeout > 0 {
		wait = cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	client := redis.NewClient(cfg.options())
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}
	return client, nil
}
