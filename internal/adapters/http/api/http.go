// Package api declares HTTP contracts and route registration helpers for
// the ops server.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/venkman/internal/domain/types"
)

// ConfigurationLister lists configuration names supporting a protocol version.
type ConfigurationLister interface {
	ConfigurationNames(ctx context.Context, version string) ([]string, error)
}

// SessionLister describes the live tracker sessions.
type SessionLister interface {
	Sessions() []types.SessionInfo
}

// Server wires HTTP routes for the ops API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	configurationsHandler *ConfigurationsHandler
	sessionsHandler       *SessionsHandler
	monitor               http.Handler
}

// NewServer creates a new API server with all handlers. monitor may be nil.
func NewServer(store ConfigurationLister, sessions SessionLister, statsProvider StatsProvider, monitor http.Handler) *Server {
	return &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(statsProvider),
		configurationsHandler: NewConfigurationsHandler(store),
		sessionsHandler:       NewSessionsHandler(sessions),
		monitor:               monitor,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/"+routeHealth, instrument(routeHealth, s.healthHandler.HandleHealth))
	mux.HandleFunc("/"+routeMetrics, instrument(routeMetrics, s.healthHandler.HandleMetrics))
	mux.HandleFunc("/"+routeStats, instrument(routeStats, s.statsHandler.HandleStats))
	mux.HandleFunc("/"+routeSessions, instrument(routeSessions, s.sessionsHandler.HandleSessions))
	mux.HandleFunc("/"+routeConfigurations, instrument(routeConfigurations, s.configurationsHandler.HandleConfigurations))
	if s.monitor != nil {
		// Upgraded connections never return through the middleware.
		mux.Handle("/monitor", s.monitor)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
