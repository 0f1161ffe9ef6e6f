package memory

import (
	"context"
	"testing"
	"time"

	"docflow/contexts/document-pipeline/notification-service/domain/entities"
)

func notification(eventID string, aggregateID string, recipient string, sentAt time.Time) entities.Notification {
	return entities.Notification{
		EventID:     eventID,
		AggregateID: aggregateID,
		EventType:   "DocumentValidated",
		Recipient:   recipient,
		Subject:     "Document " + aggregateID + " validated",
		SentAt:      sentAt,
	}
}

func TestRecordIsIdempotentPerEventID(t *testing.T) {
	store := NewStore(nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.Record(context.Background(), notification("evt-1", "doc-1", "owner@example.com", base)); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := store.Record(context.Background(), notification("evt-1", "doc-1", "owner@example.com", base.Add(time.Hour))); err != nil {
		t.Fatalf("replay record failed: %v", err)
	}

	count, err := store.CountByType(context.Background(), "DocumentValidated")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 notification after replay, got %d", count)
	}

	notified, err := store.HasNotified(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("has notified failed: %v", err)
	}
	if !notified {
		t.Fatalf("expected event to be marked notified")
	}
}

func TestHistoryQueriesOrderMostRecentFirst(t *testing.T) {
	store := NewStore(nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	seed := []entities.Notification{
		notification("evt-1", "doc-1", "owner@example.com", base),
		notification("evt-2", "doc-1", "ops@example.com", base.Add(time.Minute)),
		notification("evt-3", "doc-2", "owner@example.com", base.Add(2*time.Minute)),
	}
	for _, item := range seed {
		if err := store.Record(context.Background(), item); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	byAggregate, err := store.HistoryForAggregate(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("history by aggregate failed: %v", err)
	}
	if len(byAggregate) != 2 {
		t.Fatalf("expected 2 notifications for doc-1, got %d", len(byAggregate))
	}
	if byAggregate[0].EventID != "evt-2" || byAggregate[1].EventID != "evt-1" {
		t.Fatalf("wrong aggregate ordering: %s, %s", byAggregate[0].EventID, byAggregate[1].EventID)
	}

	byRecipient, err := store.HistoryForRecipient(context.Background(), "owner@example.com")
	if err != nil {
		t.Fatalf("history by recipient failed: %v", err)
	}
	if len(byRecipient) != 2 {
		t.Fatalf("expected 2 notifications for owner, got %d", len(byRecipient))
	}
	if byRecipient[0].EventID != "evt-3" || byRecipient[1].EventID != "evt-1" {
		t.Fatalf("wrong recipient ordering: %s, %s", byRecipient[0].EventID, byRecipient[1].EventID)
	}
}

func TestCountByTypeCountsOnlyMatchingType(t *testing.T) {
	store := NewStore(nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	validated := notification("evt-1", "doc-1", "owner@example.com", base)
	rejected := notification("evt-2", "doc-2", "owner@example.com", base)
	rejected.EventType = "DocumentRejected"
	for _, item := range []entities.Notification{validated, rejected} {
		if err := store.Record(context.Background(), item); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	count, err := store.CountByType(context.Background(), "DocumentRejected")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 rejected notification, got %d", count)
	}

	count, err = store.CountByType(context.Background(), "DocumentEnriched")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 enriched notifications, got %d", count)
	}
}

func TestStaticResolverFallsBack(t *testing.T) {
	resolver := StaticResolver{
		ByAggregate: map[string]string{"doc-1": "owner@example.com"},
		Fallback:    "ops@example.com",
	}

	recipient, err := resolver.RecipientFor(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if recipient != "owner@example.com" {
		t.Fatalf("expected mapped recipient, got %s", recipient)
	}

	recipient, err = resolver.RecipientFor(context.Background(), "doc-unknown")
	if err != nil {
		t.Fatalf("fallback resolve failed: %v", err)
	}
	if recipient != "ops@example.com" {
		t.Fatalf("expected fallback recipient, got %s", recipient)
	}
}
