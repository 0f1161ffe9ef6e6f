package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	contractsv1 "docflow/contracts/gen/events/v1"
	application "docflow/contexts/document-pipeline/enrichment-service/application"
	"docflow/contexts/document-pipeline/enrichment-service/ports"
)

// OutboxRelay drains pending outbox rows and publishes them to the bus.
// Publishing before marking keeps delivery at-least-once: a crash between
// the two re-sends the row, and consumers dedupe on event id.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = lifecycleTopic
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "enrichment_outbox_list_failed",
			"module", "document-pipeline/enrichment-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope contractsv1.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "enrichment_outbox_decode_failed",
				"module", "document-pipeline/enrichment-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "enrichment_outbox_publish_failed",
				"module", "document-pipeline/enrichment-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "enrichment_outbox_mark_sent_failed",
				"module", "document-pipeline/enrichment-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "enrichment_outbox_relay_completed",
			"module", "document-pipeline/enrichment-service",
			"layer", "worker",
			"sent_count", len(pending),
		)
	}
	return nil
}
