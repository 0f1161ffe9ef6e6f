package httptransport

type TimelineResponse struct {
	AggregateID string   `json:"aggregate_id"`
	Events      []string `json:"events"`
	EventCount  int      `json:"event_count"`
}

type AuditRecordDTO struct {
	EventID       string `json:"event_id"`
	EventType     string `json:"event_type"`
	AggregateID   string `json:"aggregate_id"`
	OccurredAt    string `json:"occurred_at"`
	ReceivedAt    string `json:"received_at"`
	MessageID     string `json:"message_id"`
	CorrelationID string `json:"correlation_id"`
	Payload       any    `json:"payload,omitempty"`
}

type GetAuditRecordResponse struct {
	Record AuditRecordDTO `json:"record"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
