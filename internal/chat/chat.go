// Package chat holds the shared state of the relay (connection registry,
// room histories and presence) and the per-connection session that drives
// it from inbound protocol frames.
//
// All stores are safe for concurrent use by many sessions. A Session itself
// is owned by the single goroutine reading its connection.
package chat

import "github.com/Tyrowin/roomchat/internal/protocol"

// Conn is the outbound side of a live client connection.
type Conn interface {
	// ID identifies the connection in logs and maps.
	ID() string
	// Enqueue hands one serialized frame to the connection without
	// blocking. It reports false if the connection is closed or cannot
	// accept more data right now.
	Enqueue(frame []byte) bool
}

// Broadcaster fans a message out to every connection bound to a room and
// keeps track of which room each connection is bound to.
type Broadcaster interface {
	Broadcast(roomID string, msg protocol.Message)
	BindRoom(conn Conn, roomID string)
	UnbindRoom(conn Conn)
}

// Stores bundles the process-wide shared state handed to every session.
type Stores struct {
	Registry *Registry
	Rooms    *RoomStore
	Presence *Presence
}

// NewStores creates empty stores. historyLimit caps each room's history;
// zero or less keeps everything.
func NewStores(historyLimit int) *Stores {
	return &Stores{
		Registry: NewRegistry(),
		Rooms:    NewRoomStore(historyLimit),
		Presence: NewPresence(),
	}
}
