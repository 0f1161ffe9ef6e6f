package queries

import (
	"context"
	"log/slog"
	"strings"

	application "docflow/contexts/document-pipeline/notification-service/application"
	"docflow/contexts/document-pipeline/notification-service/domain/entities"
	domainerrors "docflow/contexts/document-pipeline/notification-service/domain/errors"
	"docflow/contexts/document-pipeline/notification-service/ports"
)

type GetHistoryQuery struct {
	AggregateID string
	Recipient   string
}

type GetHistoryResult struct {
	Items []entities.Notification
}

// GetHistoryUseCase answers notification history by aggregate or by
// recipient, most recent first. Exactly one selector must be set.
type GetHistoryUseCase struct {
	Notifications ports.NotificationLedger
	Logger        *slog.Logger
}

func (u GetHistoryUseCase) Execute(ctx context.Context, query GetHistoryQuery) (GetHistoryResult, error) {
	logger := application.ResolveLogger(u.Logger)
	aggregateID := strings.TrimSpace(query.AggregateID)
	recipient := strings.TrimSpace(query.Recipient)
	if (aggregateID == "") == (recipient == "") {
		return GetHistoryResult{}, domainerrors.ErrInvalidRequest
	}

	var (
		items []entities.Notification
		err   error
	)
	if aggregateID != "" {
		items, err = u.Notifications.HistoryForAggregate(ctx, aggregateID)
	} else {
		items, err = u.Notifications.HistoryForRecipient(ctx, recipient)
	}
	if err != nil {
		logger.Error("notification history query failed",
			"event", "notification_history_failed",
			"module", "document-pipeline/notification-service",
			"layer", "application",
			"aggregate_id", aggregateID,
			"recipient", recipient,
			"error", err.Error(),
		)
		return GetHistoryResult{}, err
	}

	return GetHistoryResult{Items: items}, nil
}
