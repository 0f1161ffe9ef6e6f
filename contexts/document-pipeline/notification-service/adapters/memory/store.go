package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	application "docflow/contexts/document-pipeline/notification-service/application"
	"docflow/contexts/document-pipeline/notification-service/domain/entities"
	"docflow/internal/shared/processor"
)

// Store is an in-memory adapter implementing the notification ports for
// local runtime and tests. It is not intended as production persistence.
type Store struct {
	mu            sync.RWMutex
	notifications map[string]entities.Notification
	order         []string
	ledger        map[string]processor.Entry
	logger        *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		notifications: make(map[string]entities.Notification),
		order:         make([]string, 0),
		ledger:        make(map[string]processor.Entry),
		logger:        application.ResolveLogger(logger),
	}
}

func (s *Store) HasNotified(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.notifications[eventID]
	return ok, nil
}

func (s *Store) Record(_ context.Context, notification entities.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notifications[notification.EventID]; exists {
		return nil
	}
	s.notifications[notification.EventID] = notification
	s.order = append(s.order, notification.EventID)
	return nil
}

func (s *Store) HistoryForAggregate(_ context.Context, aggregateID string) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.history(func(n entities.Notification) bool {
		return n.AggregateID == aggregateID
	}), nil
}

func (s *Store) HistoryForRecipient(_ context.Context, recipient string) ([]entities.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.history(func(n entities.Notification) bool {
		return n.Recipient == recipient
	}), nil
}

func (s *Store) CountByType(_ context.Context, eventType string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, notification := range s.notifications {
		if notification.EventType == eventType {
			count++
		}
	}
	return count, nil
}

func (s *Store) history(match func(entities.Notification) bool) []entities.Notification {
	items := make([]entities.Notification, 0)
	for _, eventID := range s.order {
		notification := s.notifications[eventID]
		if match(notification) {
			items = append(items, notification)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SentAt.After(items[j].SentAt)
	})
	return items
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

// StaticResolver resolves recipients from a fixed aggregate mapping with a
// fallback address.
type StaticResolver struct {
	ByAggregate map[string]string
	Fallback    string
}

func (r StaticResolver) RecipientFor(_ context.Context, aggregateID string) (string, error) {
	if recipient, ok := r.ByAggregate[aggregateID]; ok {
		return recipient, nil
	}
	return r.Fallback, nil
}
