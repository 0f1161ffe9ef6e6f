// Package notificationservice contains the docflow notification consumer.
//
// It sends at most one outbound notification per lifecycle event and keeps
// the deduplicated notification-history ledger that answers who was
// notified, when, and how often.
package notificationservice
