package ports

import (
	"context"
	"encoding/json"
	"time"

	contractsv1 "docflow/contracts/gen/events/v1"
	"docflow/contexts/document-pipeline/enrichment-service/domain/entities"
	"docflow/internal/shared/events"
	"docflow/internal/shared/outbox"
	"docflow/internal/shared/processor"
)

// EnrichedEvent is the outbound integration payload persisted to the outbox.
type EnrichedEvent struct {
	EventID        string
	EventType      string
	AggregateID    string
	SourceEventID  string
	Classification string
	Metadata       map[string]string
	PartitionKey   string
	OccurredAt     time.Time
}

// ToEnvelope renders the canonical contract envelope persisted to the
// outbox and later published by the relay.
func (e EnrichedEvent) ToEnvelope() contractsv1.Envelope {
	data, _ := json.Marshal(map[string]any{
		"source_event_id": e.SourceEventID,
		"classification":  e.Classification,
		"metadata":        e.Metadata,
	})
	return contractsv1.Envelope{
		EventID:       e.EventID,
		EventType:     e.EventType,
		OccurredAt:    e.OccurredAt.UTC(),
		SourceService: "enrichment-service",
		SchemaVersion: 1,
		PartitionKey:  e.PartitionKey,
		AggregateID:   e.AggregateID,
		Data:          data,
	}
}

// EnrichmentRepository owns enrichment persistence and the transaction
// boundary that keeps the enrichment row and its outbox event atomic.
// CreateEnrichmentWithOutbox is idempotent keyed by source event id:
// replaying an already enriched source event is a no-op.
type EnrichmentRepository interface {
	CreateEnrichmentWithOutbox(ctx context.Context, enrichment entities.Enrichment, event EnrichedEvent) error
	GetBySourceEvent(ctx context.Context, sourceEventID string) (entities.Enrichment, error)
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// Ledger is this consumer's processed-event record.
type Ledger = processor.Ledger

// Delivery mirrors the transport delivery shape.
type Delivery = events.Delivery

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event contractsv1.Envelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, Delivery) error,
	) error
}

// Clock allows deterministic testing of enrichment stamps.
type Clock interface {
	Now() time.Time
}
