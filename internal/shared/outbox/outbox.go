package outbox

import "time"

// Message is an outbox row persisted inside the same DB transaction as the
// state change that produced it. The worker relay reads pending rows in
// creation order and publishes them to the message bus.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string // pending, sent
	CreatedAt    time.Time
	SentAt       *time.Time
}

const (
	StatusPending = "pending"
	StatusSent    = "sent"
)
