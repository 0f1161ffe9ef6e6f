package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"docflow/contexts/document-pipeline/audit-service/application/queries"
	"docflow/contexts/document-pipeline/audit-service/domain/entities"
	httptransport "docflow/contexts/document-pipeline/audit-service/transport/http"
)

type Handler struct {
	GetTimeline queries.GetTimelineUseCase
	LookupEvent queries.LookupEventUseCase
	Logger      *slog.Logger
}

// GetTimelineHandler godoc
// @Summary Get document audit timeline
// @Description Returns the full event timeline for one document, oldest first.
// @Tags audit-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param aggregate_id path string true "Document aggregate id"
// @Success 200 {object} httptransport.TimelineResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /audit/documents/{aggregate_id}/timeline [get]
func (h Handler) GetTimelineHandler(ctx context.Context, aggregateID string) (httptransport.TimelineResponse, error) {
	result, err := h.GetTimeline.Execute(ctx, queries.GetTimelineQuery{AggregateID: aggregateID})
	if err != nil {
		return httptransport.TimelineResponse{}, err
	}
	return httptransport.TimelineResponse{
		AggregateID: result.AggregateID,
		Events:      result.Events,
		EventCount:  result.EventCount,
	}, nil
}

// LookupEventHandler godoc
// @Summary Look up one audit record
// @Description Returns the stored audit record for an event id.
// @Tags audit-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param event_id path string true "Event id"
// @Success 200 {object} httptransport.GetAuditRecordResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /audit/events/{event_id} [get]
func (h Handler) LookupEventHandler(ctx context.Context, eventID string) (httptransport.GetAuditRecordResponse, error) {
	result, err := h.LookupEvent.Execute(ctx, queries.LookupEventQuery{EventID: eventID})
	if err != nil {
		return httptransport.GetAuditRecordResponse{}, err
	}
	return httptransport.GetAuditRecordResponse{
		Record: mapRecord(result.Record),
	}, nil
}

func mapRecord(record entities.AuditRecord) httptransport.AuditRecordDTO {
	dto := httptransport.AuditRecordDTO{
		EventID:       record.EventID,
		EventType:     record.EventType,
		AggregateID:   record.AggregateID,
		OccurredAt:    record.OccurredAt.UTC().Format(time.RFC3339),
		ReceivedAt:    record.ReceivedAt.UTC().Format(time.RFC3339),
		MessageID:     record.MessageID,
		CorrelationID: record.CorrelationID,
	}
	if len(record.Payload) > 0 {
		var payload any
		if err := json.Unmarshal(record.Payload, &payload); err == nil {
			dto.Payload = payload
		}
	}
	return dto
}
