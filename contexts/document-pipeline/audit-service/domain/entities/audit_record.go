package entities

import "time"

// AuditRecord is one row of the append-only audit trail: the envelope as
// received, plus receipt time and transport metadata. Records are never
// mutated or deleted after the append commits.
type AuditRecord struct {
	EventID       string
	EventType     string
	AggregateID   string
	OccurredAt    time.Time
	ReceivedAt    time.Time
	MessageID     string
	CorrelationID string
	Payload       []byte
}
