package memory

import (
	"context"
	"log/slog"
	"sync"

	application "docflow/contexts/document-pipeline/notification-service/application"
	"docflow/contexts/document-pipeline/notification-service/domain/entities"
)

// Notifier is an in-process notification channel: it logs each send and
// keeps the sent list for test inspection. A failing hook lets tests force
// channel failures.
type Notifier struct {
	mu     sync.Mutex
	sent   []entities.Notification
	Fail   func(notification entities.Notification) error
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{
		sent:   make([]entities.Notification, 0),
		logger: application.ResolveLogger(logger),
	}
}

func (n *Notifier) Send(_ context.Context, notification entities.Notification) error {
	if n.Fail != nil {
		if err := n.Fail(notification); err != nil {
			return err
		}
	}

	n.mu.Lock()
	n.sent = append(n.sent, notification)
	n.mu.Unlock()

	n.logger.Info("notification delivered",
		"event", "notifier_delivered",
		"module", "document-pipeline/notification-service",
		"layer", "adapter",
		"event_id", notification.EventID,
		"recipient", notification.Recipient,
		"subject", notification.Subject,
	)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (n *Notifier) Sent() []entities.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]entities.Notification(nil), n.sent...)
}
