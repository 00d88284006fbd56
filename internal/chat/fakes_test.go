package chat

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

// fakeConn records every frame enqueued to it. Closing it makes Enqueue
// report failure, like a transport that went away.
type fakeConn struct {
	id     string
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.frames = append(c.frames, frame)
	return true
}

func (c *fakeConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// take returns and clears the recorded frames decoded as generic objects.
func (c *fakeConn) take(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	frames := c.frames
	c.frames = nil
	c.mu.Unlock()

	out := make([]map[string]any, 0, len(frames))
	for _, f := range frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		out = append(out, m)
	}
	return out
}

// roomHub is a minimal Broadcaster that fans out synchronously.
type roomHub struct {
	mu    sync.Mutex
	bound map[Conn]string
	sent  []protocol.Message
}

func newRoomHub() *roomHub {
	return &roomHub{bound: make(map[Conn]string)}
}

func (h *roomHub) Broadcast(roomID string, msg protocol.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, msg)
	data, err := protocol.Encode(msg)
	if err != nil {
		return
	}
	for conn, room := range h.bound {
		if room == roomID {
			conn.Enqueue(data)
		}
	}
}

func (h *roomHub) BindRoom(conn Conn, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bound[conn] = roomID
}

func (h *roomHub) UnbindRoom(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.bound, conn)
}

func (h *roomHub) roomOf(conn Conn) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.bound[conn]
	return room, ok
}
