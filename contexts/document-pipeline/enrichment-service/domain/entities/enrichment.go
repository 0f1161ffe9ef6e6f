package entities

import "time"

// Enrichment is the derived classification result for one validated
// document, keyed by the validation event that triggered it.
type Enrichment struct {
	SourceEventID  string
	AggregateID    string
	Classification string
	Metadata       map[string]string
	EnrichedAt     time.Time
}
