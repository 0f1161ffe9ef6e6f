package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"docflow/contexts/document-pipeline/audit-service/domain/entities"
	domainerrors "docflow/contexts/document-pipeline/audit-service/domain/errors"
	"docflow/internal/shared/processor"
)

func record(eventID string, aggregateID string, receivedAt time.Time) entities.AuditRecord {
	return entities.AuditRecord{
		EventID:     eventID,
		EventType:   "DocumentUploaded",
		AggregateID: aggregateID,
		OccurredAt:  receivedAt.Add(-time.Second),
		ReceivedAt:  receivedAt,
		MessageID:   "msg-" + eventID,
	}
}

func TestAppendIsIdempotentPerEventID(t *testing.T) {
	store := NewStore(nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.Append(context.Background(), record("evt-1", "doc-1", base)); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	replay := record("evt-1", "doc-1", base.Add(time.Minute))
	if err := store.Append(context.Background(), replay); err != nil {
		t.Fatalf("replay append failed: %v", err)
	}

	timeline, err := store.TimelineFor(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("timeline failed: %v", err)
	}
	if len(timeline) != 1 {
		t.Fatalf("expected 1 record after replay, got %d", len(timeline))
	}
	if !timeline[0].ReceivedAt.Equal(base) {
		t.Fatalf("replay must not overwrite first record, got %v", timeline[0].ReceivedAt)
	}
}

func TestTimelineForOrdersByReceivedAt(t *testing.T) {
	store := NewStore(nil)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i, eventID := range []string{"evt-c", "evt-a", "evt-b"} {
		offsets := []time.Duration{2 * time.Minute, 0, time.Minute}
		if err := store.Append(context.Background(), record(eventID, "doc-1", base.Add(offsets[i]))); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	if err := store.Append(context.Background(), record("evt-other", "doc-2", base)); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	timeline, err := store.TimelineFor(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("timeline failed: %v", err)
	}
	if len(timeline) != 3 {
		t.Fatalf("expected 3 records, got %d", len(timeline))
	}
	want := []string{"evt-a", "evt-b", "evt-c"}
	for i, w := range want {
		if timeline[i].EventID != w {
			t.Fatalf("timeline position %d: got %s want %s", i, timeline[i].EventID, w)
		}
	}
}

func TestLookupUnknownEventReturnsNotFound(t *testing.T) {
	store := NewStore(nil)

	_, err := store.Lookup(context.Background(), "evt-missing")
	if !errors.Is(err, domainerrors.ErrEventNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClaimIsInsertIfAbsent(t *testing.T) {
	store := NewStore(nil)
	entry := processor.Entry{
		EventID:     "evt-1",
		EventType:   "DocumentUploaded",
		AggregateID: "doc-1",
		ProcessedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	outcome, err := store.Claim(context.Background(), entry)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if outcome != processor.Claimed {
		t.Fatalf("expected claimed, got %v", outcome)
	}

	second := entry
	second.ProcessedAt = entry.ProcessedAt.Add(time.Hour)
	outcome, err = store.Claim(context.Background(), second)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if outcome != processor.AlreadyClaimed {
		t.Fatalf("expected already claimed, got %v", outcome)
	}

	stored, ok := store.LedgerEntry("evt-1")
	if !ok {
		t.Fatalf("expected ledger entry")
	}
	if !stored.ProcessedAt.Equal(entry.ProcessedAt) {
		t.Fatalf("losing claim must not overwrite processed_at, got %v", stored.ProcessedAt)
	}
}
