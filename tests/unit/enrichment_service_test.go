package unit

import (
	"context"
	"sync"
	"testing"
	"time"

	contractsv1 "docflow/contracts/gen/events/v1"
	enrichmentservice "docflow/contexts/document-pipeline/enrichment-service"
	"docflow/contexts/document-pipeline/enrichment-service/ports"
)

type stubPublisher struct {
	mu        sync.Mutex
	published []struct {
		Topic    string
		Envelope contractsv1.Envelope
	}
}

func (p *stubPublisher) Publish(_ context.Context, topic string, event contractsv1.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, struct {
		Topic    string
		Envelope contractsv1.Envelope
	}{Topic: topic, Envelope: event})
	return nil
}

func (p *stubPublisher) all() []struct {
	Topic    string
	Envelope contractsv1.Envelope
} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]struct {
		Topic    string
		Envelope contractsv1.Envelope
	}(nil), p.published...)
}

func TestEnrichmentConsumerStagesEnrichedEvent(t *testing.T) {
	sub := &stubSubscriber{}
	pub := &stubPublisher{}
	module := enrichmentservice.NewInMemoryModule(sub, pub, nil)
	if err := module.Consumer.Start(context.Background()); err != nil {
		t.Fatalf("start consumer failed: %v", err)
	}
	if sub.group != "enrichment-service-cg" {
		t.Fatalf("expected enrichment consumer group, got %q", sub.group)
	}

	envelope := lifecycleEnvelope("evt-1", "DocumentValidated", "doc-1",
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		map[string]any{"file_name": "invoice-march.pdf"})
	if err := sub.handler(context.Background(), ports.Delivery{
		MessageID: "msg-1",
		Attempt:   1,
		Envelope:  envelope,
	}); err != nil {
		t.Fatalf("delivery failed: %v", err)
	}

	enrichment, err := module.Store.GetBySourceEvent(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("expected enrichment for evt-1: %v", err)
	}
	if enrichment.Classification != "invoice" {
		t.Fatalf("expected invoice classification, got %q", enrichment.Classification)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 staged outbox event, got %d", len(pending))
	}
	if pending[0].EventType != "DocumentEnriched" {
		t.Fatalf("expected DocumentEnriched outbox event, got %q", pending[0].EventType)
	}
	if pending[0].PartitionKey != "doc-1" {
		t.Fatalf("enriched event must partition by aggregate, got %q", pending[0].PartitionKey)
	}
}

func TestEnrichmentConsumerIgnoresOtherLifecycleEvents(t *testing.T) {
	sub := &stubSubscriber{}
	module := enrichmentservice.NewInMemoryModule(sub, &stubPublisher{}, nil)
	if err := module.Consumer.Start(context.Background()); err != nil {
		t.Fatalf("start consumer failed: %v", err)
	}

	envelope := lifecycleEnvelope("evt-1", "DocumentUploaded", "doc-1",
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), nil)
	if err := sub.handler(context.Background(), ports.Delivery{
		MessageID: "msg-1",
		Attempt:   1,
		Envelope:  envelope,
	}); err != nil {
		t.Fatalf("uploaded event must be acked untouched: %v", err)
	}

	if _, err := module.Store.GetBySourceEvent(context.Background(), "evt-1"); err == nil {
		t.Fatalf("uploaded event must not be enriched")
	}
	// An ignored event type is not this consumer's input: it must stay
	// unclaimed so the ledger only reflects enriched sources.
	if has, _ := module.Store.HasProcessed(context.Background(), "evt-1"); has {
		t.Fatalf("ignored event must not be claimed")
	}
}

func TestEnrichmentRedeliveryStagesOneOutboxEvent(t *testing.T) {
	sub := &stubSubscriber{}
	module := enrichmentservice.NewInMemoryModule(sub, &stubPublisher{}, nil)
	if err := module.Consumer.Start(context.Background()); err != nil {
		t.Fatalf("start consumer failed: %v", err)
	}

	envelope := lifecycleEnvelope("evt-1", "DocumentValidated", "doc-1",
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		map[string]any{"file_name": "receipt-001.pdf"})
	for attempt := 1; attempt <= 3; attempt++ {
		if err := sub.handler(context.Background(), ports.Delivery{
			MessageID: "msg-1",
			Attempt:   attempt,
			Envelope:  envelope,
		}); err != nil {
			t.Fatalf("attempt %d failed: %v", attempt, err)
		}
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("redelivery must not stage duplicates, got %d outbox events", len(pending))
	}
}

func TestOutboxRelayPublishesAndMarksSent(t *testing.T) {
	sub := &stubSubscriber{}
	pub := &stubPublisher{}
	module := enrichmentservice.NewInMemoryModule(sub, pub, nil)
	if err := module.Consumer.Start(context.Background()); err != nil {
		t.Fatalf("start consumer failed: %v", err)
	}

	envelope := lifecycleEnvelope("evt-1", "DocumentValidated", "doc-1",
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		map[string]any{"title": "Service contract draft"})
	if err := sub.handler(context.Background(), ports.Delivery{
		MessageID: "msg-1",
		Attempt:   1,
		Envelope:  envelope,
	}); err != nil {
		t.Fatalf("delivery failed: %v", err)
	}

	if err := module.Relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	published := pub.all()
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	if published[0].Topic != "documents.lifecycle" {
		t.Fatalf("enriched events flow on the lifecycle topic, got %q", published[0].Topic)
	}
	if published[0].Envelope.EventType != "DocumentEnriched" {
		t.Fatalf("expected DocumentEnriched, got %q", published[0].Envelope.EventType)
	}
	if published[0].Envelope.SourceService != "enrichment-service" {
		t.Fatalf("unexpected source service %q", published[0].Envelope.SourceService)
	}

	// Second cycle is a no-op; the row is marked sent.
	if err := module.Relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(pub.all()) != 1 {
		t.Fatalf("relay must not republish sent rows, got %d events", len(pub.all()))
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox, got %d rows", len(pending))
	}
}
