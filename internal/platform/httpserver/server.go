package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	auditservice "docflow/contexts/document-pipeline/audit-service"
	notificationservice "docflow/contexts/document-pipeline/notification-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "docflow/internal/platform/httpserver/docs"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	audit         auditservice.Module
	notifications notificationservice.Module
}

func New(
	audit auditservice.Module,
	notifications notificationservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		audit:         audit,
		notifications: notifications,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/v1/audit/documents/{aggregate_id}/timeline", s.handleAuditGetTimeline)
	s.mux.HandleFunc("GET /api/v1/audit/events/{event_id}", s.handleAuditLookupEvent)

	s.mux.HandleFunc("GET /api/v1/notifications/documents/{aggregate_id}", s.handleNotificationsForAggregate)
	s.mux.HandleFunc("GET /api/v1/notifications/recipients/{recipient}", s.handleNotificationsForRecipient)
	s.mux.HandleFunc("GET /api/v1/notifications/events/{event_id}", s.handleNotificationsCheckEvent)
	s.mux.HandleFunc("GET /api/v1/notifications/stats", s.handleNotificationsCountByType)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
