// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and presence lookups.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// presenceResponse is the body returned by PresenceHandler.
type presenceResponse struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// WebSocketHandler handles WebSocket upgrade requests. It validates that the
// request uses the GET method, upgrades the HTTP connection, creates a Client
// with a fresh session and hands it to the hub, which starts its pumps.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", zap.String("addr", r.RemoteAddr), zap.Error(err))
		return
	}

	client := NewClient(conn, s.hub, s.stores, r.RemoteAddr, s.cfg, s.log)
	if !s.hub.Register(client) {
		s.log.Info("rejecting connection during shutdown", zap.String("addr", r.RemoteAddr))
		_ = client.Close()
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Chat relay is running!")
}

// PresenceHandler reports whether ?userId= is online, offline or unknown.
func (s *Server) PresenceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId query parameter is required.", http.StatusBadRequest)
		return
	}

	resp := presenceResponse{
		UserID: userID,
		Status: s.stores.Presence.Status(userID).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("error writing presence response", zap.Error(err))
	}
}
