package auditservice

import (
	"log/slog"

	httpadapter "docflow/contexts/document-pipeline/audit-service/adapters/http"
	"docflow/contexts/document-pipeline/audit-service/adapters/memory"
	"docflow/contexts/document-pipeline/audit-service/application/queries"
	"docflow/contexts/document-pipeline/audit-service/application/workers"
	"docflow/contexts/document-pipeline/audit-service/ports"
)

// Module is the composition surface for the audit consumer.
// Runtime wiring should consume Handler and Consumer; Store is exposed for
// tests/inspection.
type Module struct {
	Handler  httpadapter.Handler
	Consumer workers.LifecycleConsumer
	Store    *memory.Store
}

type Dependencies struct {
	Store         ports.AuditStore
	Ledger        ports.Ledger
	Subscriber    ports.EventSubscriber
	Clock         ports.Clock
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewModule wires the audit use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	getTimeline := queries.GetTimelineUseCase{
		Store:  deps.Store,
		Logger: deps.Logger,
	}
	lookupEvent := queries.LookupEventUseCase{
		Store:  deps.Store,
		Logger: deps.Logger,
	}

	handler := httpadapter.Handler{
		GetTimeline: getTimeline,
		LookupEvent: lookupEvent,
		Logger:      deps.Logger,
	}
	consumer := workers.LifecycleConsumer{
		Subscriber:    deps.Subscriber,
		Store:         deps.Store,
		Ledger:        deps.Ledger,
		Clock:         deps.Clock,
		ConsumerGroup: deps.ConsumerGroup,
		Logger:        deps.Logger,
	}

	return Module{
		Handler:  handler,
		Consumer: consumer,
	}
}

// NewInMemoryModule wires the audit service against in-memory adapters for
// tests and local runtime.
func NewInMemoryModule(subscriber ports.EventSubscriber, logger *slog.Logger) Module {
	store := memory.NewStore(logger)
	module := NewModule(Dependencies{
		Store:      store,
		Ledger:     store,
		Subscriber: subscriber,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
