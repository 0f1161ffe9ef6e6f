package httpserver

import (
	"errors"
	"net/http"
	"strings"

	auditerrors "docflow/contexts/document-pipeline/audit-service/domain/errors"
	audithttp "docflow/contexts/document-pipeline/audit-service/transport/http"
)

func writeAuditError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, audithttp.ErrorResponse{Code: code, Message: message})
}

func writeAuditDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auditerrors.ErrInvalidRequest):
		writeAuditError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, auditerrors.ErrEventNotFound):
		writeAuditError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeAuditError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireAuditAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeAuditError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

func requireAuditRequestID(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
		writeAuditError(w, http.StatusBadRequest, "missing_request_id", "X-Request-Id header is required")
		return false
	}
	return true
}

func (s *Server) handleAuditGetTimeline(w http.ResponseWriter, r *http.Request) {
	if !requireAuditAuthorization(w, r) || !requireAuditRequestID(w, r) {
		return
	}

	aggregateID := strings.TrimSpace(r.PathValue("aggregate_id"))
	if aggregateID == "" {
		writeAuditError(w, http.StatusBadRequest, "invalid_request", "aggregate_id is required")
		return
	}

	resp, err := s.audit.Handler.GetTimelineHandler(r.Context(), aggregateID)
	if err != nil {
		writeAuditDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuditLookupEvent(w http.ResponseWriter, r *http.Request) {
	if !requireAuditAuthorization(w, r) || !requireAuditRequestID(w, r) {
		return
	}

	eventID := strings.TrimSpace(r.PathValue("event_id"))
	if eventID == "" {
		writeAuditError(w, http.StatusBadRequest, "invalid_request", "event_id is required")
		return
	}

	resp, err := s.audit.Handler.LookupEventHandler(r.Context(), eventID)
	if err != nil {
		writeAuditDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
