package queries

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "docflow/contexts/document-pipeline/notification-service/domain/errors"
	"docflow/contexts/document-pipeline/notification-service/ports"
)

type CountByTypeQuery struct {
	EventType string
}

type CountByTypeResult struct {
	EventType string
	Count     int
}

type CountByTypeUseCase struct {
	Notifications ports.NotificationLedger
	Logger        *slog.Logger
}

func (u CountByTypeUseCase) Execute(ctx context.Context, query CountByTypeQuery) (CountByTypeResult, error) {
	eventType := strings.TrimSpace(query.EventType)
	if eventType == "" {
		return CountByTypeResult{}, domainerrors.ErrInvalidRequest
	}

	count, err := u.Notifications.CountByType(ctx, eventType)
	if err != nil {
		return CountByTypeResult{}, err
	}
	return CountByTypeResult{
		EventType: eventType,
		Count:     count,
	}, nil
}
