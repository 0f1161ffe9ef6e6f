package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	application "docflow/contexts/document-pipeline/audit-service/application"
	"docflow/contexts/document-pipeline/audit-service/domain/entities"
	domainerrors "docflow/contexts/document-pipeline/audit-service/domain/errors"
	"docflow/internal/shared/processor"
)

// Store is an in-memory adapter implementing the audit ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu      sync.RWMutex
	records map[string]entities.AuditRecord
	order   []string
	ledger  map[string]processor.Entry
	logger  *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		records: make(map[string]entities.AuditRecord),
		order:   make([]string, 0),
		ledger:  make(map[string]processor.Entry),
		logger:  application.ResolveLogger(logger),
	}
}

func (s *Store) Append(_ context.Context, record entities.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.EventID]; exists {
		return nil
	}
	record.Payload = append([]byte(nil), record.Payload...)
	s.records[record.EventID] = record
	s.order = append(s.order, record.EventID)
	return nil
}

func (s *Store) TimelineFor(_ context.Context, aggregateID string) ([]entities.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	timeline := make([]entities.AuditRecord, 0)
	for _, eventID := range s.order {
		record := s.records[eventID]
		if record.AggregateID == aggregateID {
			timeline = append(timeline, record)
		}
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		if timeline[i].ReceivedAt.Equal(timeline[j].ReceivedAt) {
			return timeline[i].OccurredAt.Before(timeline[j].OccurredAt)
		}
		return timeline[i].ReceivedAt.Before(timeline[j].ReceivedAt)
	})
	return timeline, nil
}

func (s *Store) Lookup(_ context.Context, eventID string) (entities.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[eventID]
	if !ok {
		return entities.AuditRecord{}, domainerrors.ErrEventNotFound
	}
	return record, nil
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

// LedgerEntry exposes ledger rows for tests.
func (s *Store) LedgerEntry(eventID string) (processor.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.ledger[eventID]
	return entry, ok
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
