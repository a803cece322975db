package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Fatalf("expected port 3000, got %s", cfg.Port)
	}
	if cfg.Redis.Addr() != "redis:6379" {
		t.Fatalf("expected redis:6379, got %s", cfg.Redis.Addr())
	}
	if cfg.Cache.TTL != 60*time.Second {
		t.Fatalf("expected 60s cache TTL, got %s", cfg.Cache.TTL)
	}
	if cfg.JWT.ExpiresIn != time.Hour {
		t.Fatalf("expected 1h token TTL, got %s", cfg.JWT.ExpiresIn)
	}
	if cfg.StoreDriver != StoreDriverPostgres || cfg.EventsBackend != EventsBackendRedis {
		t.Fatalf("unexpected backends: %s %s", cfg.StoreDriver, cfg.EventsBackend)
	}
	if !strings.HasPrefix(cfg.Postgres.URL, "postgres://") || !cfg.Postgres.RunMigrations {
		t.Fatalf("unexpected postgres config: %+v", cfg.Postgres)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "secret",
		"PORT":           "8080",
		"REDIS_HOST":     "localhost",
		"REDIS_PORT":     "6380",
		"CACHE_TTL":      "5m",
		"STORE_DRIVER":   "mongo",
		"EVENTS_BACKEND": "amqp",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Redis.Addr() != "localhost:6380" || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.StoreDriver != StoreDriverMongo || cfg.EventsBackend != EventsBackendAMQP {
		t.Fatalf("unexpected backends: %s %s", cfg.StoreDriver, cfg.EventsBackend)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "secret",
		"STORE_DRIVER": "sqlite",
	}))
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected STORE_DRIVER error, got %v", err)
	}
}
