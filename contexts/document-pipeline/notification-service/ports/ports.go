package ports

import (
	"context"
	"time"

	"docflow/contexts/document-pipeline/notification-service/domain/entities"
	"docflow/internal/shared/events"
	"docflow/internal/shared/processor"
)

// NotificationLedger records each notification actually sent, keyed by the
// triggering event id. Record is an idempotent insert: re-recording an
// event id is a no-op, and the uniqueness constraint on event_id is what
// enforces the at-most-one-notification-per-event invariant at the storage
// layer.
type NotificationLedger interface {
	HasNotified(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, notification entities.Notification) error
	// HistoryForAggregate returns records most recent first.
	HistoryForAggregate(ctx context.Context, aggregateID string) ([]entities.Notification, error)
	// HistoryForRecipient returns records most recent first.
	HistoryForRecipient(ctx context.Context, recipient string) ([]entities.Notification, error)
	CountByType(ctx context.Context, eventType string) (int, error)
}

// Notifier is the outbound channel. Sends are not transactional with the
// ledger, so the consumer treats them as at-least-once and dedupes on the
// ledger side.
type Notifier interface {
	Send(ctx context.Context, notification entities.Notification) error
}

// RecipientResolver maps a document to the party that should be notified.
type RecipientResolver interface {
	RecipientFor(ctx context.Context, aggregateID string) (string, error)
}

// Ledger is this consumer's processed-event record.
type Ledger = processor.Ledger

// Delivery mirrors the transport delivery shape.
type Delivery = events.Delivery

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, Delivery) error,
	) error
}

// Clock allows deterministic testing of sent-at stamps.
type Clock interface {
	Now() time.Time
}
