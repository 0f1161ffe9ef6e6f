package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	auditservice "docflow/contexts/document-pipeline/audit-service"
	auditpostgres "docflow/contexts/document-pipeline/audit-service/adapters/postgres"
	enrichmentservice "docflow/contexts/document-pipeline/enrichment-service"
	enrichmentpostgres "docflow/contexts/document-pipeline/enrichment-service/adapters/postgres"
	enrichmentworkers "docflow/contexts/document-pipeline/enrichment-service/application/workers"
	notificationservice "docflow/contexts/document-pipeline/notification-service"
	notificationmemory "docflow/contexts/document-pipeline/notification-service/adapters/memory"
	notificationpostgres "docflow/contexts/document-pipeline/notification-service/adapters/postgres"
	"docflow/internal/platform/config"
	"docflow/internal/platform/db"
	"docflow/internal/platform/httpserver"
	"docflow/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so context code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	audit        *auditservice.Module
	notification *notificationservice.Module
	enrichment   *enrichmentservice.Module
	relay        *enrichmentworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, cfg.PostgresConnectTimeout)
	if err != nil {
		return nil, err
	}

	auditRepo := auditpostgres.NewRepository(pg.DB, logger)
	auditModule := auditservice.NewModule(auditservice.Dependencies{
		Store:  auditRepo,
		Ledger: auditRepo,
		Clock:  auditpostgres.SystemClock{},
		Logger: logger,
	})

	notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
	notificationModule := notificationservice.NewModule(notificationservice.Dependencies{
		Notifications: notificationRepo,
		Ledger:        notificationRepo,
		Clock:         notificationpostgres.SystemClock{},
		Logger:        logger,
	})

	server := httpserver.New(auditModule, notificationModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, cfg.PostgresConnectTimeout)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, messaging.Options{
		Workers:        cfg.ConsumerWorkers,
		MaxAttempts:    cfg.MaxDeliveryAttempts,
		ProcessTimeout: cfg.ProcessTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	app := &WorkerApp{
		postgres:     pg,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}

	if cfg.EnableAuditConsumer {
		auditRepo := auditpostgres.NewRepository(pg.DB, logger)
		module := auditservice.NewModule(auditservice.Dependencies{
			Store:      auditRepo,
			Ledger:     auditRepo,
			Subscriber: kafka,
			Clock:      auditpostgres.SystemClock{},
			Logger:     logger,
		})
		app.audit = &module
	}

	if cfg.EnableNotificationConsumer {
		notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
		module := notificationservice.NewModule(notificationservice.Dependencies{
			Notifications: notificationRepo,
			Ledger:        notificationRepo,
			Notifier:      notificationmemory.NewNotifier(logger),
			Recipients: notificationmemory.StaticResolver{
				Fallback: cfg.NotificationRecipientFallback,
			},
			Subscriber: kafka,
			Clock:      notificationpostgres.SystemClock{},
			Logger:     logger,
		})
		app.notification = &module
	}

	if cfg.EnableEnrichmentConsumer {
		enrichmentRepo := enrichmentpostgres.NewRepository(pg.DB, logger)
		module := enrichmentservice.NewModule(enrichmentservice.Dependencies{
			Repository: enrichmentRepo,
			Outbox:     enrichmentRepo,
			Ledger:     enrichmentRepo,
			Subscriber: kafka,
			Publisher:  kafka,
			Clock:      enrichmentpostgres.SystemClock{},
			BatchSize:  cfg.OutboxBatchSize,
			Logger:     logger,
		})
		app.enrichment = &module
		app.relay = &module.Relay
	}

	return app, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.audit != nil {
		if err := w.audit.Consumer.Start(ctx); err != nil {
			return err
		}
	}
	if w.notification != nil {
		if err := w.notification.Consumer.Start(ctx); err != nil {
			return err
		}
	}
	if w.enrichment != nil {
		if err := w.enrichment.Consumer.Start(ctx); err != nil {
			return err
		}
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	if w.relay == nil {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if err := w.relay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
