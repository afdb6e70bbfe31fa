// Package main is the entry point for the background worker: it relays
// queued mail from the outbox and cleans up processed records.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"saletype/internal/config"
	"saletype/internal/infrastructure/mail"
	"saletype/internal/infrastructure/storage/postgres"
	"saletype/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "directory holding config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting worker")

	pool, err := postgres.NewPool(ctx, cfg.Database.PoolConfig(cfg.App.Name+"-worker"))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	gateway := mail.NewHTTPGateway(mail.GatewayConfig{
		BaseURL:    cfg.Mail.GatewayURL,
		APIKey:     cfg.Mail.APIKey,
		Timeout:    cfg.Mail.Timeout,
		RetryCount: cfg.Mail.RetryCount,
	})

	worker := &Worker{
		relay:       postgres.NewOutboxRelay(pool, cfg.Worker.BatchSize, mail.NewOutboxHandler(gateway)),
		idempotency: postgres.NewIdempotencyStore(postgres.NewTxManager(pool), cfg.HTTP.IdempotencyTTL),
		cfg:         cfg.Worker,
		log:         log.WithComponent("worker"),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// Worker runs the outbox relay and the periodic cleanup.
type Worker struct {
	relay       *postgres.OutboxRelay
	idempotency *postgres.IdempotencyStore
	cfg         config.WorkerConfig
	log         *logger.Logger
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := w.relay.Run(ctx, w.cfg.Interval); err != nil && ctx.Err() == nil {
			w.log.Errorw("outbox relay stopped", "error", err)
		}
	}()

	cleanupInterval := w.cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-ticker.C:
			w.cleanup(ctx)
		}
	}
}

func (w *Worker) cleanup(ctx context.Context) {
	if n, err := w.relay.MoveToDLQ(ctx); err != nil {
		w.log.Errorw("failed to move dead messages", "error", err)
	} else if n > 0 {
		w.log.Warnw("moved undeliverable mail to dead letter queue", "count", n)
	}

	if w.cfg.RetentionPeriod > 0 {
		if n, err := w.relay.PurgePublished(ctx, w.cfg.RetentionPeriod); err != nil {
			w.log.Errorw("failed to purge published messages", "error", err)
		} else if n > 0 {
			w.log.Infow("purged published messages", "count", n)
		}
	}

	if n, err := w.idempotency.CleanupExpired(ctx); err != nil {
		w.log.Errorw("failed to clean up idempotency keys", "error", err)
	} else if n > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", n)
	}
}
