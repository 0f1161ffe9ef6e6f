package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"docflow/contexts/document-pipeline/notification-service/application/queries"
	"docflow/contexts/document-pipeline/notification-service/domain/entities"
	httptransport "docflow/contexts/document-pipeline/notification-service/transport/http"
)

type Handler struct {
	GetHistory  queries.GetHistoryUseCase
	CheckEvent  queries.CheckEventUseCase
	CountByType queries.CountByTypeUseCase
	Logger      *slog.Logger
}

// HistoryForAggregateHandler godoc
// @Summary Notification history for a document
// @Description Returns notifications sent for one document, most recent first.
// @Tags notification-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param aggregate_id path string true "Document aggregate id"
// @Success 200 {object} httptransport.HistoryResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /notifications/documents/{aggregate_id} [get]
func (h Handler) HistoryForAggregateHandler(ctx context.Context, aggregateID string) (httptransport.HistoryResponse, error) {
	result, err := h.GetHistory.Execute(ctx, queries.GetHistoryQuery{AggregateID: aggregateID})
	if err != nil {
		return httptransport.HistoryResponse{}, err
	}
	return httptransport.HistoryResponse{Items: mapNotifications(result.Items)}, nil
}

// HistoryForRecipientHandler godoc
// @Summary Notification history for a recipient
// @Description Returns notifications sent to one recipient, most recent first.
// @Tags notification-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param recipient path string true "Recipient address"
// @Success 200 {object} httptransport.HistoryResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /notifications/recipients/{recipient} [get]
func (h Handler) HistoryForRecipientHandler(ctx context.Context, recipient string) (httptransport.HistoryResponse, error) {
	result, err := h.GetHistory.Execute(ctx, queries.GetHistoryQuery{Recipient: recipient})
	if err != nil {
		return httptransport.HistoryResponse{}, err
	}
	return httptransport.HistoryResponse{Items: mapNotifications(result.Items)}, nil
}

// CheckEventHandler godoc
// @Summary Check whether an event was notified
// @Description Existence check for a notification by triggering event id.
// @Tags notification-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param event_id path string true "Event id"
// @Success 200 {object} httptransport.CheckEventResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /notifications/events/{event_id} [get]
func (h Handler) CheckEventHandler(ctx context.Context, eventID string) (httptransport.CheckEventResponse, error) {
	result, err := h.CheckEvent.Execute(ctx, queries.CheckEventQuery{EventID: eventID})
	if err != nil {
		return httptransport.CheckEventResponse{}, err
	}
	return httptransport.CheckEventResponse{
		EventID:  result.EventID,
		Notified: result.Notified,
	}, nil
}

// CountByTypeHandler godoc
// @Summary Count notifications by event type
// @Description Monitoring aggregate: how many notifications one event type produced.
// @Tags notification-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param event_type query string true "Event type"
// @Success 200 {object} httptransport.CountByTypeResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /notifications/stats [get]
func (h Handler) CountByTypeHandler(ctx context.Context, eventType string) (httptransport.CountByTypeResponse, error) {
	result, err := h.CountByType.Execute(ctx, queries.CountByTypeQuery{EventType: eventType})
	if err != nil {
		return httptransport.CountByTypeResponse{}, err
	}
	return httptransport.CountByTypeResponse{
		EventType: result.EventType,
		Count:     result.Count,
	}, nil
}

func mapNotifications(items []entities.Notification) []httptransport.NotificationDTO {
	dtos := make([]httptransport.NotificationDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, httptransport.NotificationDTO{
			EventID:     item.EventID,
			AggregateID: item.AggregateID,
			EventType:   item.EventType,
			Recipient:   item.Recipient,
			Subject:     item.Subject,
			SentAt:      item.SentAt.UTC().Format(time.RFC3339),
		})
	}
	return dtos
}
