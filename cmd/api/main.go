package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/api"
	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/core/service"
	"github.com/organizae/users-service/internal/infrastructure/config"
	mongostore "github.com/organizae/users-service/internal/infrastructure/db/mongo"
	"github.com/organizae/users-service/internal/infrastructure/db/postgres"
	redisinfra "github.com/organizae/users-service/internal/infrastructure/db/redis"
	"github.com/organizae/users-service/internal/infrastructure/http/handlers"
	"github.com/organizae/users-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/organizae/users-service/internal/infrastructure/observability"
	"github.com/organizae/users-service/internal/pkg/security"
	"github.com/organizae/users-service/pkg/logger"
)

const (
	serviceName     = "users-api"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("users api stopped")
	}
}

// closer releases one long-lived client during shutdown.
type closer func(context.Context) error

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	shutdownTracer, err := observability.InitTracer(ctx, serviceName, cfg.Tracing.Endpoint)
	if err != nil {
		return err
	}

	var closers []closer
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](cctx); err != nil {
				log.Warn().Err(err).Msg("close dependency")
			}
		}
		if err := shutdownTracer(cctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	checks := make(map[string]handlers.Check)

	// --- Store ---
	repo, err := openStore(ctx, cfg, log, checks, &closers)
	if err != nil {
		return err
	}

	// --- Cache ---
	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	closers = append(closers, func(context.Context) error { return rdb.Close() })
	checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	cache := redisinfra.NewCache(rdb, log)
	if cfg.Cache.FlushOnStart {
		cache.FlushAll(ctx)
		log.Info().Msg("cache flushed on start")
	}

	// --- Events ---
	events, err := openPublisher(cfg, rdb, log, checks, &closers)
	if err != nil {
		return err
	}

	// --- Services ---
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	users := service.NewUserService(repo, cache, events, log, cfg.Cache.TTL)
	auth := service.NewAuthService(repo, tokens, log)

	e := api.NewRouter(api.Deps{
		Log:    log,
		Users:  users,
		Auth:   auth,
		Tokens: tokens,
		Checks: checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("server shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("shutdown complete")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, checks map[string]handlers.Check, closers *[]closer) (ports.UserRepository, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(ctx context.Context) error { return mongostore.Disconnect(ctx, db) })
		checks["mongodb"] = func(ctx context.Context) error { return mongostore.Ping(ctx, db) }

		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil

	default:
		if cfg.Postgres.RunMigrations {
			if err := postgres.Migrate(cfg.Postgres.URL, log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, postgres.Config{
			DSN:         cfg.Postgres.URL,
			MaxConns:    cfg.Postgres.MaxConns,
			MinConns:    cfg.Postgres.MinConns,
			MaxConnLife: cfg.Postgres.MaxConnLife,
		})
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(context.Context) error { pool.Close(); return nil })
		checks["postgres"] = pool.Ping
		return postgres.NewUserRepository(pool), nil
	}
}

func openPublisher(cfg *config.Config, rdb *goredis.Client, log zerolog.Logger, checks map[string]handlers.Check, closers *[]closer) (ports.EventPublisher, error) {
	if cfg.EventsBackend != config.EventsBackendAMQP {
		return redisinfra.NewPublisher(rdb, log), nil
	}

	broker, err := rabbitmq.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, func(context.Context) error { return broker.Close() })
	checks["rabbitmq"] = func(context.Context) error { return broker.Ping() }

	pub, err := rabbitmq.NewPublisher(broker, log)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, func(context.Context) error { return pub.Close() })
	return pub, nil
}
