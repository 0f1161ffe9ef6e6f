package events

import contractsv1 "docflow/contracts/gen/events/v1"

// Delivery is one transport delivery of an envelope. MessageID and Attempt
// are transport metadata: consumers use them for observability and audit
// enrichment only, never for idempotency decisions.
type Delivery struct {
	MessageID string
	Attempt   int
	Envelope  contractsv1.Envelope
}
