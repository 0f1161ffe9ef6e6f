// Package auditservice contains the docflow audit consumer.
//
// It records every document lifecycle event it receives into an append-only
// audit trail and reconstructs per-document timelines from it. The module
// keeps domain/application logic decoupled from runtime/platform concerns
// through ports and adapter composition.
package auditservice
