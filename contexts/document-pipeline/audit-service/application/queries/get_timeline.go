package queries

import (
	"context"
	"log/slog"
	"strings"

	application "docflow/contexts/document-pipeline/audit-service/application"
	domainerrors "docflow/contexts/document-pipeline/audit-service/domain/errors"
	"docflow/contexts/document-pipeline/audit-service/domain/services"
	"docflow/contexts/document-pipeline/audit-service/ports"
)

type GetTimelineQuery struct {
	AggregateID string
}

type GetTimelineResult struct {
	AggregateID string
	Events      []string
	EventCount  int
}

type GetTimelineUseCase struct {
	Store  ports.AuditStore
	Logger *slog.Logger
}

func (u GetTimelineUseCase) Execute(ctx context.Context, query GetTimelineQuery) (GetTimelineResult, error) {
	logger := application.ResolveLogger(u.Logger)
	aggregateID := strings.TrimSpace(query.AggregateID)
	if aggregateID == "" {
		return GetTimelineResult{}, domainerrors.ErrInvalidRequest
	}

	records, err := u.Store.TimelineFor(ctx, aggregateID)
	if err != nil {
		logger.Error("timeline query failed",
			"event", "audit_timeline_failed",
			"module", "document-pipeline/audit-service",
			"layer", "application",
			"aggregate_id", aggregateID,
			"error", err.Error(),
		)
		return GetTimelineResult{}, err
	}

	descriptions := make([]string, 0, len(records))
	for _, record := range records {
		descriptions = append(descriptions, services.Describe(record))
	}

	logger.Info("timeline query completed",
		"event", "audit_timeline_completed",
		"module", "document-pipeline/audit-service",
		"layer", "application",
		"aggregate_id", aggregateID,
		"event_count", len(descriptions),
	)

	return GetTimelineResult{
		AggregateID: aggregateID,
		Events:      descriptions,
		EventCount:  len(descriptions),
	}, nil
}
