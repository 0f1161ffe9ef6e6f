package messaging

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	contractsv1 "docflow/contracts/gen/events/v1"
	"docflow/internal/shared/events"
	"docflow/internal/shared/processor"

	"github.com/google/uuid"
)

// DeadLetterSuffix is appended to a topic to form its dead-letter topic.
const DeadLetterSuffix = ".dlq"

// Delivery is the transport delivery shape shared with consumer ports.
type Delivery = events.Delivery

// Handler processes one delivery. A nil return acknowledges the message.
// Any other error leaves the message unacknowledged and triggers bounded
// redelivery; an error wrapping processor.ErrPermanent skips retries and
// routes the message to the dead-letter topic. Alias so consumer ports can
// declare the same shape without importing this package.
type Handler = func(ctx context.Context, delivery Delivery) error

// Kafka is the event bus adapter used by worker consumers and the outbox
// relay. Current implementation is in-process publish/subscribe while
// runtime wiring is finalized for external brokers; it preserves the broker
// contract that matters here: at-least-once delivery, per-partition-key
// ordering inside one consumer group, and parallelism across keys.
type Kafka struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscription
	workers        int
	maxAttempts    int
	retryDelay     time.Duration
	processTimeout time.Duration
	logger         *slog.Logger
}

type subscription struct {
	topic      string
	group      string
	partitions []chan Delivery
}

// Options tunes bus behavior; zero values fall back to defaults.
// ProcessTimeout bounds a single handler invocation: when the deadline
// expires the attempt is abandoned without acknowledgment and the message
// is redelivered.
type Options struct {
	Workers        int
	MaxAttempts    int
	RetryDelay     time.Duration
	ProcessTimeout time.Duration
}

func NewKafka(_ []string, opts Options, logger *slog.Logger) (*Kafka, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 25 * time.Millisecond
	}
	processTimeout := opts.ProcessTimeout
	if processTimeout <= 0 {
		processTimeout = 30 * time.Second
	}
	return &Kafka{
		subscribers:    make(map[string][]*subscription),
		workers:        workers,
		maxAttempts:    maxAttempts,
		retryDelay:     retryDelay,
		processTimeout: processTimeout,
		logger:         logger,
	}, nil
}

// Publish fans the envelope out to every consumer group subscribed to the
// topic. Each delivery gets a fresh message id; the partition key pins the
// envelope to one worker per group so envelopes for the same aggregate stay
// ordered.
func (k *Kafka) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	k.mu.RLock()
	subs := append([]*subscription(nil), k.subscribers[topic]...)
	k.mu.RUnlock()

	for _, sub := range subs {
		delivery := Delivery{
			MessageID: uuid.NewString(),
			Attempt:   1,
			Envelope:  event,
		}
		partition := sub.partitions[partitionIndex(event.PartitionKey, len(sub.partitions))]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case partition <- delivery:
		}
	}

	if k.logger != nil {
		k.logger.Info("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

// Subscribe registers a consumer group on a topic and starts the worker
// pool. Redelivery happens in place so per-partition ordering survives
// retries.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler Handler,
) error {
	sub := &subscription{
		topic:      topic,
		group:      consumerGroup,
		partitions: make([]chan Delivery, k.workers),
	}
	for i := range sub.partitions {
		sub.partitions[i] = make(chan Delivery, 128)
	}

	k.mu.Lock()
	k.subscribers[topic] = append(k.subscribers[topic], sub)
	k.mu.Unlock()

	for i := range sub.partitions {
		go k.consumePartition(ctx, sub, sub.partitions[i], handler)
	}
	return nil
}

func (k *Kafka) consumePartition(
	ctx context.Context,
	sub *subscription,
	partition chan Delivery,
	handler Handler,
) {
	for {
		select {
		case <-ctx.Done():
			k.removeSubscriber(sub)
			return
		case delivery := <-partition:
			k.deliver(ctx, sub, delivery, handler)
		}
	}
}

func (k *Kafka) deliver(ctx context.Context, sub *subscription, delivery Delivery, handler Handler) {
	for {
		err := k.invoke(ctx, delivery, handler)
		if err == nil {
			return
		}

		if errors.Is(err, processor.ErrPermanent) {
			k.deadLetter(ctx, sub, delivery, "permanent failure", err)
			return
		}
		if delivery.Attempt >= k.maxAttempts {
			k.deadLetter(ctx, sub, delivery, "delivery attempts exhausted", err)
			return
		}

		if k.logger != nil {
			k.logger.Warn("delivery failed, redelivering",
				"event", "kafka_redeliver",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", sub.topic,
				"consumer_group", sub.group,
				"message_id", delivery.MessageID,
				"event_id", delivery.Envelope.EventID,
				"attempt", delivery.Attempt,
				"error", err.Error(),
			)
		}
		delivery.Attempt++

		select {
		case <-ctx.Done():
			return
		case <-time.After(k.retryDelay):
		}
	}
}

// invoke runs the handler under the per-delivery deadline. A handler that
// overruns it returns context.DeadlineExceeded, which counts as an ordinary
// transient failure: the attempt is abandoned unacknowledged and the message
// goes back through redelivery.
func (k *Kafka) invoke(ctx context.Context, delivery Delivery, handler Handler) error {
	attemptCtx, cancel := context.WithTimeout(ctx, k.processTimeout)
	defer cancel()
	return handler(attemptCtx, delivery)
}

func (k *Kafka) deadLetter(ctx context.Context, sub *subscription, delivery Delivery, reason string, cause error) {
	if k.logger != nil {
		k.logger.Error("message routed to dead letter topic",
			"event", "kafka_dead_letter",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", sub.topic,
			"consumer_group", sub.group,
			"message_id", delivery.MessageID,
			"event_id", delivery.Envelope.EventID,
			"event_type", delivery.Envelope.EventType,
			"reason", reason,
			"error", cause.Error(),
		)
	}
	_ = k.Publish(ctx, sub.topic+DeadLetterSuffix, delivery.Envelope)
}

func (k *Kafka) removeSubscriber(target *subscription) {
	k.mu.Lock()
	defer k.mu.Unlock()

	items := k.subscribers[target.topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]*subscription, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	k.subscribers[target.topic] = filtered
}

func partitionIndex(key string, partitions int) int {
	if partitions <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(partitions))
}
