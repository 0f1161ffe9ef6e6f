package notificationservice

import (
	"log/slog"

	httpadapter "docflow/contexts/document-pipeline/notification-service/adapters/http"
	"docflow/contexts/document-pipeline/notification-service/adapters/memory"
	"docflow/contexts/document-pipeline/notification-service/application/queries"
	"docflow/contexts/document-pipeline/notification-service/application/workers"
	"docflow/contexts/document-pipeline/notification-service/ports"
)

// Module is the composition surface for the notification consumer.
// Runtime wiring should consume Handler and Consumer; Store and Notifier
// are exposed for tests/inspection.
type Module struct {
	Handler  httpadapter.Handler
	Consumer workers.LifecycleConsumer
	Store    *memory.Store
	Notifier *memory.Notifier
}

type Dependencies struct {
	Notifications ports.NotificationLedger
	Ledger        ports.Ledger
	Notifier      ports.Notifier
	Recipients    ports.RecipientResolver
	Subscriber    ports.EventSubscriber
	Clock         ports.Clock
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewModule wires the notification use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	getHistory := queries.GetHistoryUseCase{
		Notifications: deps.Notifications,
		Logger:        deps.Logger,
	}
	checkEvent := queries.CheckEventUseCase{
		Notifications: deps.Notifications,
		Logger:        deps.Logger,
	}
	countByType := queries.CountByTypeUseCase{
		Notifications: deps.Notifications,
		Logger:        deps.Logger,
	}

	handler := httpadapter.Handler{
		GetHistory:  getHistory,
		CheckEvent:  checkEvent,
		CountByType: countByType,
		Logger:      deps.Logger,
	}
	consumer := workers.LifecycleConsumer{
		Subscriber:    deps.Subscriber,
		Ledger:        deps.Ledger,
		Notifications: deps.Notifications,
		Notifier:      deps.Notifier,
		Recipients:    deps.Recipients,
		Clock:         deps.Clock,
		ConsumerGroup: deps.ConsumerGroup,
		Logger:        deps.Logger,
	}

	return Module{
		Handler:  handler,
		Consumer: consumer,
	}
}

// NewInMemoryModule wires the notification service against in-memory
// adapters for tests and local runtime.
func NewInMemoryModule(subscriber ports.EventSubscriber, fallbackRecipient string, logger *slog.Logger) Module {
	store := memory.NewStore(logger)
	notifier := memory.NewNotifier(logger)
	module := NewModule(Dependencies{
		Notifications: store,
		Ledger:        store,
		Notifier:      notifier,
		Recipients:    memory.StaticResolver{Fallback: fallbackRecipient},
		Subscriber:    subscriber,
		Clock:         store,
		Logger:        logger,
	})
	module.Store = store
	module.Notifier = notifier
	return module
}
