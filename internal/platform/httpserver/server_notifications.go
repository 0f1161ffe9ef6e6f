package httpserver

import (
	"errors"
	"net/http"
	"strings"

	notificationerrors "docflow/contexts/document-pipeline/notification-service/domain/errors"
	notificationhttp "docflow/contexts/document-pipeline/notification-service/transport/http"
)

func writeNotificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, notificationhttp.ErrorResponse{Code: code, Message: message})
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrInvalidRequest):
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, notificationerrors.ErrNotificationNotFound):
		writeNotificationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, notificationerrors.ErrChannelUnavailable):
		writeNotificationError(w, http.StatusFailedDependency, "channel_unavailable", err.Error())
	default:
		writeNotificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireNotificationAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeNotificationError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

func requireNotificationRequestID(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
		writeNotificationError(w, http.StatusBadRequest, "missing_request_id", "X-Request-Id header is required")
		return false
	}
	return true
}

func (s *Server) handleNotificationsForAggregate(w http.ResponseWriter, r *http.Request) {
	if !requireNotificationAuthorization(w, r) || !requireNotificationRequestID(w, r) {
		return
	}

	aggregateID := strings.TrimSpace(r.PathValue("aggregate_id"))
	if aggregateID == "" {
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", "aggregate_id is required")
		return
	}

	resp, err := s.notifications.Handler.HistoryForAggregateHandler(r.Context(), aggregateID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotificationsForRecipient(w http.ResponseWriter, r *http.Request) {
	if !requireNotificationAuthorization(w, r) || !requireNotificationRequestID(w, r) {
		return
	}

	recipient := strings.TrimSpace(r.PathValue("recipient"))
	if recipient == "" {
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", "recipient is required")
		return
	}

	resp, err := s.notifications.Handler.HistoryForRecipientHandler(r.Context(), recipient)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotificationsCheckEvent(w http.ResponseWriter, r *http.Request) {
	if !requireNotificationAuthorization(w, r) || !requireNotificationRequestID(w, r) {
		return
	}

	eventID := strings.TrimSpace(r.PathValue("event_id"))
	if eventID == "" {
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", "event_id is required")
		return
	}

	resp, err := s.notifications.Handler.CheckEventHandler(r.Context(), eventID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotificationsCountByType(w http.ResponseWriter, r *http.Request) {
	if !requireNotificationAuthorization(w, r) || !requireNotificationRequestID(w, r) {
		return
	}

	eventType := strings.TrimSpace(r.URL.Query().Get("event_type"))
	if eventType == "" {
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", "event_type is required")
		return
	}

	resp, err := s.notifications.Handler.CountByTypeHandler(r.Context(), eventType)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
