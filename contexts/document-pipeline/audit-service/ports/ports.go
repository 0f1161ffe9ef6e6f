package ports

import (
	"context"
	"time"

	"docflow/contexts/document-pipeline/audit-service/domain/entities"
	"docflow/internal/shared/events"
	"docflow/internal/shared/processor"
)

// AuditStore owns the append-only audit trail. Append is idempotent at the
// storage layer keyed by event id: re-appending an already stored event is a
// no-op, not an error. That property is what makes effect-before-claim
// processing safe.
type AuditStore interface {
	Append(ctx context.Context, record entities.AuditRecord) error
	// TimelineFor returns records for one aggregate ordered by receipt
	// time, then occurrence time. Unknown aggregates yield an empty slice.
	TimelineFor(ctx context.Context, aggregateID string) ([]entities.AuditRecord, error)
	Lookup(ctx context.Context, eventID string) (entities.AuditRecord, error)
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

// Clock allows deterministic testing of receipt stamps.
type Clock interface {
	Now() time.Time
}
