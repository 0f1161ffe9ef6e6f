package queries

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "docflow/contexts/document-pipeline/notification-service/domain/errors"
	"docflow/contexts/document-pipeline/notification-service/ports"
)

type CheckEventQuery struct {
	EventID string
}

type CheckEventResult struct {
	EventID  string
	Notified bool
}

type CheckEventUseCase struct {
	Notifications ports.NotificationLedger
	Logger        *slog.Logger
}

func (u CheckEventUseCase) Execute(ctx context.Context, query CheckEventQuery) (CheckEventResult, error) {
	eventID := strings.TrimSpace(query.EventID)
	if eventID == "" {
		return CheckEventResult{}, domainerrors.ErrInvalidRequest
	}

	notified, err := u.Notifications.HasNotified(ctx, eventID)
	if err != nil {
		return CheckEventResult{}, err
	}
	return CheckEventResult{
		EventID:  eventID,
		Notified: notified,
	}, nil
}
