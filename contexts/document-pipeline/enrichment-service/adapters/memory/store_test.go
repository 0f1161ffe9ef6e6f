package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	contractsv1 "docflow/contracts/gen/events/v1"
	"docflow/contexts/document-pipeline/enrichment-service/domain/entities"
	domainerrors "docflow/contexts/document-pipeline/enrichment-service/domain/errors"
	"docflow/contexts/document-pipeline/enrichment-service/ports"
)

func enrichmentFixture(sourceEventID string) (entities.Enrichment, ports.EnrichedEvent) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	enrichment := entities.Enrichment{
		SourceEventID:  sourceEventID,
		AggregateID:    "doc-1",
		Classification: "invoice",
		Metadata:       map[string]string{"keyword": "invoice"},
		EnrichedAt:     at,
	}
	event := ports.EnrichedEvent{
		EventID:        "enriched-" + sourceEventID,
		EventType:      "DocumentEnriched",
		AggregateID:    "doc-1",
		SourceEventID:  sourceEventID,
		Classification: "invoice",
		Metadata:       map[string]string{"keyword": "invoice"},
		PartitionKey:   "doc-1",
		OccurredAt:     at,
	}
	return enrichment, event
}

func TestCreateEnrichmentWithOutboxIsIdempotentBySourceEvent(t *testing.T) {
	store := NewStore(nil)
	enrichment, event := enrichmentFixture("evt-1")

	if err := store.CreateEnrichmentWithOutbox(context.Background(), enrichment, event); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Redelivery after a crash generates a fresh enriched event id, but the
	// source event already has its outbox row.
	replayEvent := event
	replayEvent.EventID = "enriched-evt-1-replay"
	if err := store.CreateEnrichmentWithOutbox(context.Background(), enrichment, replayEvent); err != nil {
		t.Fatalf("replay create failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox row after replay, got %d", len(pending))
	}
	if pending[0].OutboxID != "enriched-evt-1" {
		t.Fatalf("replay must not stage a second outbox row, got %s", pending[0].OutboxID)
	}
}

func TestOutboxPayloadIsCanonicalEnvelope(t *testing.T) {
	store := NewStore(nil)
	enrichment, event := enrichmentFixture("evt-1")

	if err := store.CreateEnrichmentWithOutbox(context.Background(), enrichment, event); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}

	var envelope contractsv1.Envelope
	if err := json.Unmarshal(pending[0].Payload, &envelope); err != nil {
		t.Fatalf("payload must decode as envelope: %v", err)
	}
	if envelope.EventType != "DocumentEnriched" {
		t.Fatalf("unexpected event type %q", envelope.EventType)
	}
	if envelope.SourceService != "enrichment-service" {
		t.Fatalf("unexpected source service %q", envelope.SourceService)
	}
	if envelope.PartitionKey != "doc-1" {
		t.Fatalf("unexpected partition key %q", envelope.PartitionKey)
	}
}

func TestMarkOutboxSentRemovesFromPending(t *testing.T) {
	store := NewStore(nil)
	enrichment, event := enrichmentFixture("evt-1")

	if err := store.CreateEnrichmentWithOutbox(context.Background(), enrichment, event); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	sentAt := time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC)
	if err := store.MarkOutboxSent(context.Background(), event.EventID, sentAt); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty pending set, got %d rows", len(pending))
	}

	if err := store.MarkOutboxSent(context.Background(), "unknown-outbox-id", sentAt); !errors.Is(err, domainerrors.ErrRepositoryInvariantBroke) {
		t.Fatalf("expected invariant error for unknown outbox id, got %v", err)
	}
}

func TestGetBySourceEvent(t *testing.T) {
	store := NewStore(nil)
	enrichment, event := enrichmentFixture("evt-1")

	if _, err := store.GetBySourceEvent(context.Background(), "evt-1"); !errors.Is(err, domainerrors.ErrEnrichmentNotFound) {
		t.Fatalf("expected not found before create, got %v", err)
	}
	if err := store.CreateEnrichmentWithOutbox(context.Background(), enrichment, event); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := store.GetBySourceEvent(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Classification != "invoice" {
		t.Fatalf("unexpected classification %q", got.Classification)
	}
}
