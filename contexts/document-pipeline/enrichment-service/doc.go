// Package enrichmentservice contains the docflow enrichment producer.
//
// It consumes DocumentValidated events, derives classification and metadata
// for the document, and publishes DocumentEnriched events through a
// transactional outbox so the enrichment row and its outbound event commit
// atomically.
package enrichmentservice
