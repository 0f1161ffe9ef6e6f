package services

import (
	"encoding/json"
	"fmt"

	"docflow/contexts/document-pipeline/audit-service/domain/entities"
)

// Describe renders one audit record as a human-readable timeline line.
// Unknown types still render; the trail must show everything received.
func Describe(record entities.AuditRecord) string {
	switch record.EventType {
	case "DocumentUploaded":
		return fmt.Sprintf("document %s uploaded at %s",
			record.AggregateID, record.OccurredAt.Format("2006-01-02 15:04:05 MST"))
	case "DocumentValidated":
		return fmt.Sprintf("document %s passed validation at %s",
			record.AggregateID, record.OccurredAt.Format("2006-01-02 15:04:05 MST"))
	case "DocumentRejected":
		reason := payloadField(record.Payload, "reason")
		if reason == "" {
			return fmt.Sprintf("document %s rejected at %s",
				record.AggregateID, record.OccurredAt.Format("2006-01-02 15:04:05 MST"))
		}
		return fmt.Sprintf("document %s rejected (%s) at %s",
			record.AggregateID, reason, record.OccurredAt.Format("2006-01-02 15:04:05 MST"))
	case "DocumentEnriched":
		classification := payloadField(record.Payload, "classification")
		if classification == "" {
			return fmt.Sprintf("document %s enriched at %s",
				record.AggregateID, record.OccurredAt.Format("2006-01-02 15:04:05 MST"))
		}
		return fmt.Sprintf("document %s enriched, classified as %q at %s",
			record.AggregateID, classification, record.OccurredAt.Format("2006-01-02 15:04:05 MST"))
	default:
		return fmt.Sprintf("document %s received event %s at %s",
			record.AggregateID, record.EventType, record.OccurredAt.Format("2006-01-02 15:04:05 MST"))
	}
}

func payloadField(payload []byte, field string) string {
	if len(payload) == 0 {
		return ""
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return ""
	}
	value, _ := decoded[field].(string)
	return value
}
