package chat

import (
	"errors"
	"sync"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

// ErrRoomNotFound is returned when appending to a room that was never
// ensured.
var ErrRoomNotFound = errors.New("room not found")

// RoomStore keeps the ordered message history of every room referenced so
// far. Rooms are never removed.
type RoomStore struct {
	mu       sync.RWMutex
	history  map[string][]protocol.Message
	maxItems int
}

// NewRoomStore creates an empty store. When maxItems is positive only the
// newest maxItems messages of each room are retained.
func NewRoomStore(maxItems int) *RoomStore {
	if maxItems < 0 {
		maxItems = 0
	}
	return &RoomStore{
		history:  make(map[string][]protocol.Message),
		maxItems: maxItems,
	}
}

// Ensure creates an empty history for roomID if it has none yet.
func (s *RoomStore) Ensure(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(roomID)
}

func (s *RoomStore) ensureLocked(roomID string) []protocol.Message {
	messages, ok := s.history[roomID]
	if !ok {
		messages = make([]protocol.Message, 0)
		s.history[roomID] = messages
	}
	return messages
}

// Append adds msg to the end of roomID's history.
func (s *RoomStore) Append(roomID string, msg protocol.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, ok := s.history[roomID]
	if !ok {
		return ErrRoomNotFound
	}

	messages = append(messages, msg)
	if s.maxItems > 0 && len(messages) > s.maxItems {
		messages = messages[len(messages)-s.maxItems:]
	}
	s.history[roomID] = messages
	return nil
}

// History returns a copy of roomID's history, oldest first. Reading a room
// that was never referenced creates it.
func (s *RoomStore) History(roomID string) []protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.ensureLocked(roomID)
	out := make([]protocol.Message, len(messages))
	copy(out, messages)
	return out
}

// Exists reports whether roomID has been referenced.
func (s *RoomStore) Exists(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.history[roomID]
	return ok
}
