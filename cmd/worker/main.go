package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/WeroML/back-bd-tattoo2/internal/config"
	"github.com/WeroML/back-bd-tattoo2/internal/email"
	"github.com/WeroML/back-bd-tattoo2/internal/repository/postgres"
	"github.com/WeroML/back-bd-tattoo2/pkg/logger"
	redisbroker "github.com/WeroML/back-bd-tattoo2/pkg/messaging/redis"
	"github.com/WeroML/back-bd-tattoo2/pkg/metrics"
	"github.com/WeroML/back-bd-tattoo2/pkg/worker"
)

// Standalone outbox processor for deployments that run it apart from the API.
func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	mailer := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.To,
		Enabled:  cfg.SMTP.Enabled,
	}, log)

	m := metrics.NewMetrics("tattoo_studio", "worker")
	processor := worker.NewOutboxProcessor(postgres.NewOutboxRepository(db), broker, mailer, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
		MaxAttempts:   cfg.Outbox.MaxAttempts,
	}, log, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	processor.Start(ctx)
}
