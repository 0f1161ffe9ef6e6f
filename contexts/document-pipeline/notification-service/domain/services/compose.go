package services

import "fmt"

// Subject renders the outbound notification subject line for one lifecycle
// event type.
func Subject(eventType string, aggregateID string) string {
	switch eventType {
	case "DocumentUploaded":
		return fmt.Sprintf("Document %s was uploaded", aggregateID)
	case "DocumentValidated":
		return fmt.Sprintf("Document %s passed validation", aggregateID)
	case "DocumentRejected":
		return fmt.Sprintf("Document %s was rejected", aggregateID)
	case "DocumentEnriched":
		return fmt.Sprintf("Document %s was enriched", aggregateID)
	default:
		return fmt.Sprintf("Document %s: %s", aggregateID, eventType)
	}
}
