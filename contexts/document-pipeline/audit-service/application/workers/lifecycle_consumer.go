package workers

import (
	"context"
	"log/slog"
	"time"

	application "docflow/contexts/document-pipeline/audit-service/application"
	"docflow/contexts/document-pipeline/audit-service/domain/entities"
	"docflow/contexts/document-pipeline/audit-service/ports"
	"docflow/internal/shared/events"
	"docflow/internal/shared/processor"
)

const (
	lifecycleTopic       = "documents.lifecycle"
	defaultConsumerGroup = "audit-service-cg"
	consumerName         = "audit-service"
)

// LifecycleConsumer appends every document lifecycle event to the audit
// trail, exactly once per event id.
type LifecycleConsumer struct {
	Subscriber    ports.EventSubscriber
	Store         ports.AuditStore
	Ledger        ports.Ledger
	Clock         ports.Clock
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c LifecycleConsumer) Start(ctx context.Context) error {
	group := c.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, lifecycleTopic, group, c.handle)
}

func (c LifecycleConsumer) handle(ctx context.Context, delivery ports.Delivery) error {
	logger := application.ResolveLogger(c.Logger)

	env, err := events.FromContract(delivery.Envelope)
	if err != nil {
		logger.Error("malformed envelope routed to dead letter",
			"event", "audit_envelope_malformed",
			"module", "document-pipeline/audit-service",
			"layer", "worker",
			"message_id", delivery.MessageID,
			"event_id", delivery.Envelope.EventID,
			"error", err.Error(),
		)
		return processor.Permanent(err)
	}

	proc := processor.Processor{
		Consumer: consumerName,
		Ledger:   c.Ledger,
		Clock:    c.Clock,
		Logger:   c.Logger,
	}
	state, err := proc.Process(ctx, env, func(ctx context.Context) error {
		payload, err := env.PayloadJSON()
		if err != nil {
			return processor.Permanent(err)
		}
		return c.Store.Append(ctx, entities.AuditRecord{
			EventID:       env.EventID(),
			EventType:     string(env.EventType()),
			AggregateID:   env.AggregateID(),
			OccurredAt:    env.OccurredAt(),
			ReceivedAt:    c.now(),
			MessageID:     delivery.MessageID,
			CorrelationID: env.CorrelationID(),
			Payload:       payload,
		})
	})
	if err != nil {
		return err
	}

	if state == processor.StateApplied {
		logger.Info("audit record appended",
			"event", "audit_record_appended",
			"module", "document-pipeline/audit-service",
			"layer", "worker",
			"event_id", env.EventID(),
			"event_type", string(env.EventType()),
			"aggregate_id", env.AggregateID(),
			"message_id", delivery.MessageID,
		)
	}
	return nil
}

func (c LifecycleConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
