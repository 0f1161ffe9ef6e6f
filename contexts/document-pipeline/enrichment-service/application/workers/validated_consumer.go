package workers

import (
	"context"
	"log/slog"
	"time"

	application "docflow/contexts/document-pipeline/enrichment-service/application"
	"docflow/contexts/document-pipeline/enrichment-service/domain/entities"
	"docflow/contexts/document-pipeline/enrichment-service/domain/services"
	"docflow/contexts/document-pipeline/enrichment-service/ports"
	"docflow/internal/shared/events"
	"docflow/internal/shared/processor"
)

const (
	lifecycleTopic       = "documents.lifecycle"
	defaultConsumerGroup = "enrichment-service-cg"
	consumerName         = "enrichment-service"
)

// ValidatedConsumer derives enrichment for each DocumentValidated event and
// stages the DocumentEnriched event in the outbox, exactly once per source
// event.
type ValidatedConsumer struct {
	Subscriber    ports.EventSubscriber
	Repository    ports.EnrichmentRepository
	Ledger        ports.Ledger
	Clock         ports.Clock
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c ValidatedConsumer) Start(ctx context.Context) error {
	group := c.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, lifecycleTopic, group, c.handle)
}

func (c ValidatedConsumer) handle(ctx context.Context, delivery ports.Delivery) error {
	logger := application.ResolveLogger(c.Logger)

	env, err := events.FromContract(delivery.Envelope)
	if err != nil {
		logger.Error("malformed envelope routed to dead letter",
			"event", "enrichment_envelope_malformed",
			"module", "document-pipeline/enrichment-service",
			"layer", "worker",
			"message_id", delivery.MessageID,
			"event_id", delivery.Envelope.EventID,
			"error", err.Error(),
		)
		return processor.Permanent(err)
	}
	// Other lifecycle events flow on the same topic; they are not this
	// consumer's input and must be acked untouched, not claimed.
	if env.EventType() != events.TypeDocumentValidated {
		return nil
	}

	proc := processor.Processor{
		Consumer: consumerName,
		Ledger:   c.Ledger,
		Clock:    c.Clock,
		Logger:   c.Logger,
	}
	_, err = proc.Process(ctx, env, func(ctx context.Context) error {
		return c.enrich(ctx, env)
	})
	return err
}

func (c ValidatedConsumer) enrich(ctx context.Context, env events.Envelope) error {
	logger := application.ResolveLogger(c.Logger)
	now := c.now()

	classification, metadata := services.Classify(env.AggregateID(), env.Payload())
	enrichment := entities.Enrichment{
		SourceEventID:  env.EventID(),
		AggregateID:    env.AggregateID(),
		Classification: classification,
		Metadata:       metadata,
		EnrichedAt:     now,
	}

	enriched, err := events.New(events.TypeDocumentEnriched, env.AggregateID(), map[string]any{
		"source_event_id": env.EventID(),
		"classification":  classification,
		"metadata":        toAnyMap(metadata),
	})
	if err != nil {
		return err
	}

	if err := c.Repository.CreateEnrichmentWithOutbox(ctx, enrichment, ports.EnrichedEvent{
		EventID:        enriched.EventID(),
		EventType:      string(enriched.EventType()),
		AggregateID:    env.AggregateID(),
		SourceEventID:  env.EventID(),
		Classification: classification,
		Metadata:       metadata,
		PartitionKey:   env.AggregateID(),
		OccurredAt:     enriched.OccurredAt(),
	}); err != nil {
		return err
	}

	logger.Info("document enriched",
		"event", "enrichment_created",
		"module", "document-pipeline/enrichment-service",
		"layer", "worker",
		"source_event_id", env.EventID(),
		"aggregate_id", env.AggregateID(),
		"classification", classification,
	)
	return nil
}

func (c ValidatedConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func toAnyMap(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}
