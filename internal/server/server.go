// Package server owns the relay's runtime: the shared chat stores, the
// broadcast hub, and the WebSocket upgrader built from Config.
package server

import (
	"context"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Tyrowin/roomchat/internal/chat"
)

// Server wires configuration, shared state and the hub together. Handlers
// are methods on Server so that nothing lives in package globals.
type Server struct {
	cfg      Config
	log      *zap.Logger
	hub      *Hub
	stores   *chat.Stores
	origins  *originPolicy
	upgrader websocket.Upgrader
}

// New builds a Server from cfg. A nil cfg means defaults.
func New(cfg *Config, log *zap.Logger) *Server {
	if cfg == nil {
		cfg = NewConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	sanitized := sanitizeConfig(*cfg)
	s := &Server{
		cfg:     sanitized,
		log:     log,
		hub:     NewHub(log.Named("hub")),
		stores:  chat.NewStores(sanitized.HistoryLimit),
		origins: newOriginPolicy(sanitized.AllowedOrigins, log),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.origins.check,
	}
	return s
}

// Config returns the effective configuration.
func (s *Server) Config() Config {
	return s.cfg
}

// Hub returns the broadcast hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Stores returns the shared chat state.
func (s *Server) Stores() *chat.Stores {
	return s.stores
}

// Start runs the hub in a separate goroutine. Call it before serving HTTP.
func (s *Server) Start() {
	go s.hub.Run()
	s.log.Info("hub started and ready to manage WebSocket connections")
}

// Shutdown closes every client connection and waits for their goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hub.Shutdown(ctx)
}
