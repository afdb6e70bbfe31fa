// Package main is the entry point for the sale type API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"saletype/internal/app"
	"saletype/internal/config"
	"saletype/internal/domain/auth"
	v1 "saletype/internal/infrastructure/http/v1"
	"saletype/internal/infrastructure/mail"
	"saletype/internal/infrastructure/numerator"
	"saletype/internal/infrastructure/report"
	"saletype/internal/infrastructure/storage/postgres"
	"saletype/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

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

	ctx := context.Background()
	log.Infow("starting server", "app", cfg.App.Name, "env", cfg.App.Env, "version", version)

	// --- Database ---
	pool, err := postgres.NewPool(ctx, cfg.Database.PoolConfig(cfg.App.Name))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	// --- Mail ---
	gateway := mail.NewHTTPGateway(mail.GatewayConfig{
		BaseURL:    cfg.Mail.GatewayURL,
		APIKey:     cfg.Mail.APIKey,
		Timeout:    cfg.Mail.Timeout,
		RetryCount: cfg.Mail.RetryCount,
	})
	queue := mail.NewOutboxQueue(postgres.NewOutboxPublisher(txManager))

	// --- Services ---
	services := app.NewServices(app.Deps{
		TxManager:   txManager,
		Numerator:   numerator.New(pool),
		Audit:       auditService,
		Gateway:     gateway,
		Queue:       queue,
		MailFrom:    cfg.Mail.From,
		Reports:     report.NewURLBuilder(cfg.Report.BaseURL),
		MatchPolicy: cfg.Classifier.MatchPolicy(),

		CacheCandidates: cfg.Classifier.CacheCandidates,
		Listen:          pool,
	})
	if services.Candidates != nil {
		services.Candidates.Start(logger.WithLogger(ctx, log))
		defer services.Candidates.Stop()
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.AccessTokenTTL,
	})

	var idempotency *postgres.IdempotencyStore
	if cfg.HTTP.IdempotencyEnabled {
		idempotency = postgres.NewIdempotencyStore(txManager, cfg.HTTP.IdempotencyTTL)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Health:           pool,
		App:              cfg.App.Name,
		Version:          version,
		Logger:           log,
		JWTValidator:     jwtService,
		Services:         services,
		IdempotencyStore: idempotency,
		MetadataRegistry: setupMetadataRegistry(),
		ClassifyLimit:    cfg.Classifier.PageSize,
		Debug:            cfg.App.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
