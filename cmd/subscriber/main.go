package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/domain"
	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/core/service"
	"github.com/organizae/users-service/internal/infrastructure/config"
	redisinfra "github.com/organizae/users-service/internal/infrastructure/db/redis"
	"github.com/organizae/users-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/organizae/users-service/internal/infrastructure/queue"
	"github.com/organizae/users-service/pkg/logger"
)

const serviceName = "users-subscriber"

func main() {
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
		log.Fatal().Err(err).Msg("subscriber stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	source, release, err := openSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer release()

	dispatcher := queue.NewDispatcher(cfg.SubscriberWorkers, service.NewEventMonitor(log), log)

	log.Info().
		Strs("channels", domain.MonitoredChannels).
		Str("backend", cfg.EventsBackend).
		Int("workers", cfg.SubscriberWorkers).
		Msg("subscriber listening")

	if err := dispatcher.Consume(ctx, source, domain.MonitoredChannels); err != nil {
		return err
	}
	log.Info().Msg("subscriber shut down")
	return nil
}

func openSource(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.EventSource, func(), error) {
	if cfg.EventsBackend == config.EventsBackendAMQP {
		broker, err := rabbitmq.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return nil, nil, err
		}
		return rabbitmq.NewConsumer(broker, log), func() { _ = broker.Close() }, nil
	}

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return redisinfra.NewSubscriber(rdb, log), func() { _ = rdb.Close() }, nil
}
