package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	contractsv1 "docflow/contracts/gen/events/v1"

	"github.com/google/uuid"
)

// Type is the closed, append-only enumeration of document lifecycle events.
type Type string

const (
	TypeDocumentUploaded  Type = "DocumentUploaded"
	TypeDocumentValidated Type = "DocumentValidated"
	TypeDocumentRejected  Type = "DocumentRejected"
	TypeDocumentEnriched  Type = "DocumentEnriched"
)

// KnownType reports whether the tag belongs to the closed enumeration.
func KnownType(t Type) bool {
	switch t {
	case TypeDocumentUploaded, TypeDocumentValidated, TypeDocumentRejected, TypeDocumentEnriched:
		return true
	default:
		return false
	}
}

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingAggregate = errors.New("aggregate id is required")
	ErrMissingEventID   = errors.New("event id is required")
)

// Envelope is the immutable wire representation of one domain event.
// Identity and equality are defined solely by the event id; the payload is
// owned by the envelope and never aliases caller memory.
type Envelope struct {
	eventID       string
	eventType     Type
	aggregateID   string
	occurredAt    time.Time
	correlationID string
	payload       map[string]any
}

// New stamps a fresh event id and creation time and deep-copies the payload.
// The only constructor for producer-side envelopes.
func New(eventType Type, aggregateID string, payload map[string]any) (Envelope, error) {
	if !KnownType(eventType) {
		return Envelope{}, ErrUnknownEventType
	}
	if strings.TrimSpace(aggregateID) == "" {
		return Envelope{}, ErrMissingAggregate
	}
	return Envelope{
		eventID:     uuid.NewString(),
		eventType:   eventType,
		aggregateID: aggregateID,
		occurredAt:  time.Now().UTC(),
		payload:     copyPayload(payload),
	}, nil
}

// FromContract rebuilds a consumer-side envelope from the canonical contract.
// Validation here is the malformed-envelope gate: failures are permanent and
// must not be retried.
func FromContract(c contractsv1.Envelope) (Envelope, error) {
	if strings.TrimSpace(c.EventID) == "" {
		return Envelope{}, ErrMissingEventID
	}
	if !KnownType(Type(c.EventType)) {
		return Envelope{}, ErrUnknownEventType
	}
	if strings.TrimSpace(c.AggregateID) == "" {
		return Envelope{}, ErrMissingAggregate
	}

	var payload map[string]any
	if len(c.Data) > 0 {
		if err := json.Unmarshal(c.Data, &payload); err != nil {
			return Envelope{}, fmt.Errorf("decode envelope payload: %w", err)
		}
	}
	return Envelope{
		eventID:       c.EventID,
		eventType:     Type(c.EventType),
		aggregateID:   c.AggregateID,
		occurredAt:    c.OccurredAt.UTC(),
		correlationID: c.CorrelationID,
		payload:       payload,
	}, nil
}

// ToContract serializes the envelope into the canonical contract shape.
func (e Envelope) ToContract(sourceService string) (contractsv1.Envelope, error) {
	var data json.RawMessage
	if e.payload != nil {
		encoded, err := json.Marshal(e.payload)
		if err != nil {
			return contractsv1.Envelope{}, err
		}
		data = encoded
	}
	return contractsv1.Envelope{
		EventID:       e.eventID,
		EventType:     string(e.eventType),
		OccurredAt:    e.occurredAt,
		SourceService: sourceService,
		CorrelationID: e.correlationID,
		SchemaVersion: 1,
		PartitionKey:  e.aggregateID,
		AggregateID:   e.aggregateID,
		Data:          data,
	}, nil
}

func (e Envelope) EventID() string       { return e.eventID }
func (e Envelope) EventType() Type       { return e.eventType }
func (e Envelope) AggregateID() string   { return e.aggregateID }
func (e Envelope) OccurredAt() time.Time { return e.occurredAt }
func (e Envelope) CorrelationID() string { return e.correlationID }

// Payload returns a copy; mutating it never changes the envelope.
func (e Envelope) Payload() map[string]any {
	return copyPayload(e.payload)
}

// PayloadJSON returns the payload encoded for persistence.
func (e Envelope) PayloadJSON() ([]byte, error) {
	if e.payload == nil {
		return nil, nil
	}
	return json.Marshal(e.payload)
}

// Equal compares envelopes by event id only.
func (e Envelope) Equal(other Envelope) bool {
	return e.eventID != "" && e.eventID == other.eventID
}

func copyPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		out[key] = copyValue(value)
	}
	return out
}

func copyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return copyPayload(typed)
	case []any:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = copyValue(item)
		}
		return items
	default:
		return typed
	}
}
