package enrichmentservice

import (
	"log/slog"

	"docflow/contexts/document-pipeline/enrichment-service/adapters/memory"
	"docflow/contexts/document-pipeline/enrichment-service/application/workers"
	"docflow/contexts/document-pipeline/enrichment-service/ports"
)

// Module is the composition surface for the enrichment consumer.
// Runtime wiring should consume Consumer and Relay; Store is exposed for
// tests/inspection.
type Module struct {
	Consumer workers.ValidatedConsumer
	Relay    workers.OutboxRelay
	Store    *memory.Store
}

type Dependencies struct {
	Repository    ports.EnrichmentRepository
	Outbox        ports.OutboxRepository
	Ledger        ports.Ledger
	Subscriber    ports.EventSubscriber
	Publisher     ports.EventPublisher
	Clock         ports.Clock
	ConsumerGroup string
	Topic         string
	BatchSize     int
	Logger        *slog.Logger
}

// NewModule wires the enrichment workers against explicit ports.
func NewModule(deps Dependencies) Module {
	consumer := workers.ValidatedConsumer{
		Subscriber:    deps.Subscriber,
		Repository:    deps.Repository,
		Ledger:        deps.Ledger,
		Clock:         deps.Clock,
		ConsumerGroup: deps.ConsumerGroup,
		Logger:        deps.Logger,
	}
	relay := workers.OutboxRelay{
		Outbox:    deps.Outbox,
		Publisher: deps.Publisher,
		Clock:     deps.Clock,
		Topic:     deps.Topic,
		BatchSize: deps.BatchSize,
		Logger:    deps.Logger,
	}

	return Module{
		Consumer: consumer,
		Relay:    relay,
	}
}

// NewInMemoryModule wires the enrichment service against the in-memory
// adapter for tests and local runtime.
func NewInMemoryModule(
	subscriber ports.EventSubscriber,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(logger)
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		Ledger:     store,
		Subscriber: subscriber,
		Publisher:  publisher,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
