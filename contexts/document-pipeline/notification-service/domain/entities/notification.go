package entities

import "time"

// Notification is one sent-notification record, keyed by the triggering
// event id. A document accumulates one per lifecycle event, never more than
// one per event.
type Notification struct {
	EventID     string
	AggregateID string
	EventType   string
	Recipient   string
	Subject     string
	SentAt      time.Time
}
