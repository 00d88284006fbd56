// Package server coordinates client registration, room-scoped broadcast, and
// connection cleanup for the relay via the Hub type.
package server

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/Tyrowin/roomchat/internal/chat"
	"github.com/Tyrowin/roomchat/internal/protocol"
)

// Hub tracks every open connection and the room it is bound to, and fans
// room messages out to the bound connections.
type Hub struct {
	// clients maps each open connection to its room binding ("" when unbound).
	clients    map[chat.Conn]string
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	log        *zap.Logger
}

// NewHub creates and initializes a new Hub instance with all necessary channels
// and client map. The returned Hub is ready to manage WebSocket connections.
func NewHub(log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[chat.Conn]string),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		log:        log,
	}
}

// Register hands a freshly upgraded client to the hub, which starts its
// pumps. It reports false once the hub is shutting down.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main event loop, handling client registration and
// unregistration. This method should be called in a separate goroutine
// as it runs until Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				h.log.Warn("received nil client registration; skipping")
				continue
			}

			clientCount := h.Attach(client)
			h.log.Info("client registered",
				zap.String("conn", client.ID()),
				zap.String("addr", client.addr),
				zap.Int("clients", clientCount))

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

		case client := <-h.unregister:
			if h.Detach(client) {
				client.closeSend()
				h.log.Info("client unregistered",
					zap.String("conn", client.ID()),
					zap.String("addr", client.addr),
					zap.Int("clients", h.ClientCount()))
			}
		}
	}
}

// Attach adds an open connection with no room binding and returns the
// number of attached connections.
func (h *Hub) Attach(conn chat.Conn) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		h.clients[conn] = ""
	}
	return len(h.clients)
}

// Detach forgets a connection. It reports whether the connection was attached.
func (h *Hub) Detach(conn chat.Conn) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return false
	}
	delete(h.clients, conn)
	return true
}

// BindRoom records that conn now receives broadcasts for roomID. Detached
// connections are ignored.
func (h *Hub) BindRoom(conn chat.Conn, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		h.clients[conn] = roomID
	}
}

// UnbindRoom stops broadcasts to conn.
func (h *Hub) UnbindRoom(conn chat.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		h.clients[conn] = ""
	}
}

// Broadcast serializes msg once and enqueues it on every connection bound
// to roomID. A recipient that cannot take the frame loses it; the others
// are unaffected.
func (h *Hub) Broadcast(roomID string, msg protocol.Message) {
	if roomID == "" {
		return
	}

	payload, err := protocol.Encode(msg)
	if err != nil {
		h.log.Error("failed to encode broadcast", zap.String("room", roomID), zap.Error(err))
		return
	}

	targets := h.roomSnapshot(roomID)
	h.log.Debug("broadcasting message",
		zap.String("room", roomID),
		zap.String("type", msg.Type),
		zap.Int("recipients", len(targets)))

	for _, conn := range targets {
		if !conn.Enqueue(payload) {
			h.log.Warn("dropped frame for slow or closed connection",
				zap.String("room", roomID),
				zap.String("conn", conn.ID()))
		}
	}
}

// roomSnapshot returns the connections bound to roomID at this instant.
func (h *Hub) roomSnapshot(roomID string) []chat.Conn {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	targets := make([]chat.Conn, 0, len(h.clients))
	for conn, bound := range h.clients {
		if bound == roomID {
			targets = append(targets, conn)
		}
	}
	return targets
}

// ClientCount returns the number of attached connections.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// RoomMembers returns the number of connections bound to roomID.
func (h *Hub) RoomMembers(roomID string) int {
	return len(h.roomSnapshot(roomID))
}

// shutdownClients closes every attached connection so that its pumps exit.
func (h *Hub) shutdownClients() {
	h.log.Info("shutting down all client connections")

	h.mutex.Lock()
	conns := make([]chat.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[chat.Conn]string)
	h.mutex.Unlock()

	for _, conn := range conns {
		closer, ok := conn.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil && !isExpectedCloseError(err) {
			h.log.Warn("error closing client connection", zap.String("conn", conn.ID()), zap.Error(err))
		}
	}

	h.log.Info("closed client connections", zap.Int("count", len(conns)))
}

// Shutdown stops the hub, closes every connection and waits for all client
// goroutines to finish or for ctx to expire.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.log.Info("initiating hub shutdown")

	h.cancel()
	select {
	case <-h.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("hub shutdown completed")
		return nil
	case <-ctx.Done():
		h.log.Warn("hub shutdown deadline reached, some goroutines may still be running")
		return ctx.Err()
	}
}
