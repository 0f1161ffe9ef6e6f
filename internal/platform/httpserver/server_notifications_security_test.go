package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	notificationentities "docflow/contexts/document-pipeline/notification-service/domain/entities"
)

func seedNotification(t *testing.T, server *Server, eventID string, aggregateID string, recipient string) {
	t.Helper()
	if err := server.notifications.Store.Record(context.Background(), notificationentities.Notification{
		EventID:     eventID,
		AggregateID: aggregateID,
		EventType:   "DocumentValidated",
		Recipient:   recipient,
		Subject:     "Document " + aggregateID + " validated",
		SentAt:      time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed record failed: %v", err)
	}
}

func TestNotificationHistoryRequiresAuthorization(t *testing.T) {
	server, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/documents/doc-1", nil)
	req.Header.Set("X-Request-Id", "req-notify-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestNotificationHistoryRequiresRequestID(t *testing.T) {
	server, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/documents/doc-1", nil)
	req.Header.Set("Authorization", "Bearer token")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestNotificationHistoryForAggregate(t *testing.T) {
	server, _, _ := newTestServer()
	seedNotification(t, server, "evt-1", "doc-1", "owner@example.com")
	seedNotification(t, server, "evt-2", "doc-2", "owner@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/documents/doc-1", nil)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-notify-3")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	items, ok := payload["items"].([]any)
	if !ok {
		t.Fatalf("expected items array, got %#v", payload["items"])
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 notification for doc-1, got %d", len(items))
	}
}

func TestNotificationCheckEvent(t *testing.T) {
	server, _, _ := newTestServer()
	seedNotification(t, server, "evt-1", "doc-1", "owner@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/events/evt-1", nil)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-notify-4")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["notified"] != true {
		t.Fatalf("expected notified=true, got %#v", payload["notified"])
	}
}

func TestNotificationStatsRequireEventTypeQuery(t *testing.T) {
	server, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stats", nil)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-notify-5")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestNotificationStatsCountByType(t *testing.T) {
	server, _, _ := newTestServer()
	seedNotification(t, server, "evt-1", "doc-1", "owner@example.com")
	seedNotification(t, server, "evt-2", "doc-2", "owner@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stats?event_type=DocumentValidated", nil)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-notify-6")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["count"] != float64(2) {
		t.Fatalf("expected count 2, got %#v", payload["count"])
	}
}
