package queries

import (
	"context"
	"log/slog"
	"strings"

	"docflow/contexts/document-pipeline/audit-service/domain/entities"
	domainerrors "docflow/contexts/document-pipeline/audit-service/domain/errors"
	"docflow/contexts/document-pipeline/audit-service/ports"
)

type LookupEventQuery struct {
	EventID string
}

type LookupEventResult struct {
	Record entities.AuditRecord
}

type LookupEventUseCase struct {
	Store  ports.AuditStore
	Logger *slog.Logger
}

func (u LookupEventUseCase) Execute(ctx context.Context, query LookupEventQuery) (LookupEventResult, error) {
	eventID := strings.TrimSpace(query.EventID)
	if eventID == "" {
		return LookupEventResult{}, domainerrors.ErrInvalidRequest
	}

	record, err := u.Store.Lookup(ctx, eventID)
	if err != nil {
		return LookupEventResult{}, err
	}
	return LookupEventResult{Record: record}, nil
}
