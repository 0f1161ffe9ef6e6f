package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	application "docflow/contexts/document-pipeline/enrichment-service/application"
	"docflow/contexts/document-pipeline/enrichment-service/domain/entities"
	domainerrors "docflow/contexts/document-pipeline/enrichment-service/domain/errors"
	"docflow/contexts/document-pipeline/enrichment-service/ports"
	"docflow/internal/shared/outbox"
	"docflow/internal/shared/processor"
)

// Store is an in-memory adapter implementing the enrichment ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu          sync.RWMutex
	enrichments map[string]entities.Enrichment
	outbox      map[string]outbox.Message
	outboxOrder []string
	ledger      map[string]processor.Entry
	logger      *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		enrichments: make(map[string]entities.Enrichment),
		outbox:      make(map[string]outbox.Message),
		outboxOrder: make([]string, 0),
		ledger:      make(map[string]processor.Entry),
		logger:      application.ResolveLogger(logger),
	}
}

func (s *Store) CreateEnrichmentWithOutbox(
	_ context.Context,
	enrichment entities.Enrichment,
	event ports.EnrichedEvent,
) error {
	payload, err := json.Marshal(event.ToEnvelope())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.enrichments[enrichment.SourceEventID]; exists {
		return nil
	}
	s.enrichments[enrichment.SourceEventID] = enrichment
	s.outbox[event.EventID] = outbox.Message{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	s.outboxOrder = append(s.outboxOrder, event.EventID)
	return nil
}

func (s *Store) GetBySourceEvent(_ context.Context, sourceEventID string) (entities.Enrichment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enrichment, ok := s.enrichments[sourceEventID]
	if !ok {
		return entities.Enrichment{}, domainerrors.ErrEnrichmentNotFound
	}
	return enrichment, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]outbox.Message, 0)
	for _, outboxID := range s.outboxOrder {
		message := s.outbox[outboxID]
		if message.Status != outbox.StatusPending {
			continue
		}
		pending = append(pending, message)
		if len(pending) >= limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	sent := sentAt.UTC()
	message.Status = outbox.StatusSent
	message.SentAt = &sent
	s.outbox[outboxID] = message
	return nil
}

func (s *Store) HasProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ledger[eventID]
	return ok, nil
}

func (s *Store) Claim(_ context.Context, entry processor.Entry) (processor.ClaimOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ledger[entry.EventID]; ok {
		return processor.AlreadyClaimed, nil
	}
	s.ledger[entry.EventID] = entry
	return processor.Claimed, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
