package workers

import (
	"context"
	"log/slog"
	"time"

	application "docflow/contexts/document-pipeline/notification-service/application"
	"docflow/contexts/document-pipeline/notification-service/domain/entities"
	"docflow/contexts/document-pipeline/notification-service/domain/services"
	"docflow/contexts/document-pipeline/notification-service/ports"
	"docflow/internal/shared/events"
	"docflow/internal/shared/processor"
)

const (
	lifecycleTopic       = "documents.lifecycle"
	defaultConsumerGroup = "notification-service-cg"
	consumerName         = "notification-service"
)

// LifecycleConsumer sends one notification per lifecycle event and records
// it in the notification ledger.
type LifecycleConsumer struct {
	Subscriber    ports.EventSubscriber
	Ledger        ports.Ledger
	Notifications ports.NotificationLedger
	Notifier      ports.Notifier
	Recipients    ports.RecipientResolver
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
			"event", "notification_envelope_malformed",
			"module", "document-pipeline/notification-service",
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
	_, err = proc.Process(ctx, env, func(ctx context.Context) error {
		return c.notify(ctx, env)
	})
	return err
}

// notify is the consumer effect. The HasNotified guard is defense in depth:
// the claim already prevents duplicate effects on the happy path, but a
// crash between the ledger write below and the claim would otherwise resend
// on redelivery.
func (c LifecycleConsumer) notify(ctx context.Context, env events.Envelope) error {
	logger := application.ResolveLogger(c.Logger)

	notified, err := c.Notifications.HasNotified(ctx, env.EventID())
	if err != nil {
		return err
	}
	if notified {
		logger.Debug("notification already sent",
			"event", "notification_already_sent",
			"module", "document-pipeline/notification-service",
			"layer", "worker",
			"event_id", env.EventID(),
		)
		return nil
	}

	recipient, err := c.Recipients.RecipientFor(ctx, env.AggregateID())
	if err != nil {
		return err
	}

	notification := entities.Notification{
		EventID:     env.EventID(),
		AggregateID: env.AggregateID(),
		EventType:   string(env.EventType()),
		Recipient:   recipient,
		Subject:     services.Subject(string(env.EventType()), env.AggregateID()),
		SentAt:      c.now(),
	}
	if err := c.Notifier.Send(ctx, notification); err != nil {
		logger.Error("notification send failed",
			"event", "notification_send_failed",
			"module", "document-pipeline/notification-service",
			"layer", "worker",
			"event_id", env.EventID(),
			"recipient", recipient,
			"error", err.Error(),
		)
		return err
	}
	if err := c.Notifications.Record(ctx, notification); err != nil {
		return err
	}

	logger.Info("notification sent",
		"event", "notification_sent",
		"module", "document-pipeline/notification-service",
		"layer", "worker",
		"event_id", env.EventID(),
		"event_type", string(env.EventType()),
		"aggregate_id", env.AggregateID(),
		"recipient", recipient,
	)
	return nil
}

func (c LifecycleConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
