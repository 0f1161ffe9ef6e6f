package httptransport

type NotificationDTO struct {
	EventID     string `json:"event_id"`
	AggregateID string `json:"aggregate_id"`
	EventType   string `json:"event_type"`
	Recipient   string `json:"recipient"`
	Subject     string `json:"subject"`
	SentAt      string `json:"sent_at"`
}

type HistoryResponse struct {
	Items []NotificationDTO `json:"items"`
}

type CheckEventResponse struct {
	EventID  string `json:"event_id"`
	Notified bool   `json:"notified"`
}

type CountByTypeResponse struct {
	EventType string `json:"event_type"`
	Count     int    `json:"count"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
