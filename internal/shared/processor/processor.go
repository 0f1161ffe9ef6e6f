// Package processor implements the idempotent-consumer state machine shared
// by every docflow service. A message moves
// Received -> Deduplicated, or Received -> Applied, or Received -> Failed;
// the per-consumer ledger claim is what collapses at-least-once delivery
// into at-most-once side effects.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docflow/internal/shared/events"
)

// State is the terminal (or intermediate) processing state of one delivery.
type State string

const (
	StateReceived     State = "received"
	StateDeduplicated State = "deduplicated"
	StateApplied      State = "applied"
	StateFailed       State = "failed"
)

// ClaimOutcome is the result of the atomic ledger insert.
type ClaimOutcome int

const (
	Claimed ClaimOutcome = iota
	AlreadyClaimed
)

// Entry is one ledger row: at most one per event id per consumer.
type Entry struct {
	EventID     string
	EventType   string
	AggregateID string
	ProcessedAt time.Time
}

// Ledger is the per-consumer processed-event record. Claim must be a single
// atomic insert-if-absent against the backing store so that concurrent
// deliveries of one event id resolve to exactly one Claimed result. A
// storage uniqueness violation is a normal AlreadyClaimed outcome, never an
// error.
type Ledger interface {
	HasProcessed(ctx context.Context, eventID string) (bool, error)
	Claim(ctx context.Context, entry Entry) (ClaimOutcome, error)
}

// Clock allows deterministic testing of processedAt stamps.
type Clock interface {
	Now() time.Time
}

// ErrPermanent marks failures that redelivery cannot heal (malformed input).
// The transport routes these to the dead-letter topic instead of retrying.
var ErrPermanent = errors.New("permanent processing failure")

// Permanent wraps err so the transport stops retrying it.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Effect is the service-specific work for one envelope. It must be safe to
// re-attempt: the stores behind it upsert keyed by event id, so a crash
// between effect and claim only produces a no-op on redelivery.
type Effect func(ctx context.Context) error

// Processor drives one consumer's envelopes through the state machine.
// Ordering is effect-before-claim: the effect is idempotent by construction,
// and the claim commits only after the effect succeeded, so no claim can
// exist without its effect.
type Processor struct {
	Consumer string
	Ledger   Ledger
	Clock    Clock
	Logger   *slog.Logger
}

// Process applies effect for env exactly once per event id. The returned
// state is terminal; a non-nil error always pairs with StateFailed and means
// the message must not be acknowledged.
func (p Processor) Process(ctx context.Context, env events.Envelope, effect Effect) (State, error) {
	logger := p.logger()

	seen, err := p.Ledger.HasProcessed(ctx, env.EventID())
	if err != nil {
		return StateFailed, fmt.Errorf("ledger lookup: %w", err)
	}
	if seen {
		logger.Debug("event already processed",
			"event", "processor_deduplicated",
			"module", "internal/shared/processor",
			"layer", "application",
			"consumer", p.Consumer,
			"event_id", env.EventID(),
			"event_type", string(env.EventType()),
		)
		return StateDeduplicated, nil
	}

	if err := effect(ctx); err != nil {
		logger.Error("event effect failed",
			"event", "processor_effect_failed",
			"module", "internal/shared/processor",
			"layer", "application",
			"consumer", p.Consumer,
			"event_id", env.EventID(),
			"event_type", string(env.EventType()),
			"error", err.Error(),
		)
		return StateFailed, err
	}

	outcome, err := p.Ledger.Claim(ctx, Entry{
		EventID:     env.EventID(),
		EventType:   string(env.EventType()),
		AggregateID: env.AggregateID(),
		ProcessedAt: p.now(),
	})
	if err != nil {
		return StateFailed, fmt.Errorf("ledger claim: %w", err)
	}
	if outcome == AlreadyClaimed {
		// A concurrent delivery won the claim; our effect was an upsert
		// no-op, so the outward result is identical to never redelivering.
		logger.Debug("event claimed by concurrent delivery",
			"event", "processor_claim_lost",
			"module", "internal/shared/processor",
			"layer", "application",
			"consumer", p.Consumer,
			"event_id", env.EventID(),
		)
		return StateDeduplicated, nil
	}

	logger.Info("event applied",
		"event", "processor_applied",
		"module", "internal/shared/processor",
		"layer", "application",
		"consumer", p.Consumer,
		"event_id", env.EventID(),
		"event_type", string(env.EventType()),
		"aggregate_id", env.AggregateID(),
	)
	return StateApplied, nil
}

func (p Processor) now() time.Time {
	if p.Clock != nil {
		return p.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (p Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
