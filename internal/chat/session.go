package chat

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

// State is the protocol state of a Session.
type State int

// Session states.
const (
	Anonymous State = iota
	Identified
	InRoom
	Terminated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Identified:
		return "identified"
	case InRoom:
		return "in-room"
	case Terminated:
		return "terminated"
	default:
		return "invalid"
	}
}

// Session is the per-connection protocol state machine. It binds at most one
// identity and at most one room to its connection. A Session must only be
// used from the goroutine reading its connection.
type Session struct {
	conn   Conn
	stores *Stores
	hub    Broadcaster
	base   *zap.Logger
	log    *zap.Logger

	userID string
	roomID string
	closed bool
}

// NewSession creates an anonymous session for conn.
func NewSession(conn Conn, stores *Stores, hub Broadcaster, log *zap.Logger) *Session {
	base := log.With(zap.String("conn", conn.ID()))
	return &Session{
		conn:   conn,
		stores: stores,
		hub:    hub,
		base:   base,
		log:    base,
	}
}

// Identity returns the bound identity, or "" when anonymous.
func (s *Session) Identity() string { return s.userID }

// Room returns the bound room, or "" when not in a room.
func (s *Session) Room() string { return s.roomID }

// State reports the current protocol state.
func (s *Session) State() State {
	switch {
	case s.closed:
		return Terminated
	case s.userID == "":
		return Anonymous
	case s.roomID == "":
		return Identified
	default:
		return InRoom
	}
}

// Handle processes one raw inbound frame. Errors never escape: they are
// logged and, where the client caused them, answered with an error frame.
func (s *Session) Handle(raw []byte) {
	if s.closed {
		return
	}

	in, err := protocol.Decode(raw)
	switch {
	case errors.Is(err, protocol.ErrUnknownType):
		s.log.Warn("ignoring unknown message type", zap.String("type", in.Type))
		return
	case err != nil:
		s.log.Info("rejecting malformed message", zap.Error(err))
		s.Reject(protocol.CodeMalformed)
		return
	}

	s.dispatch(in)
}

func (s *Session) dispatch(in protocol.Inbound) {
	switch in.Type {
	case protocol.TypeLogin:
		s.login(in)
	case protocol.TypeCreateRoom:
		s.createRoom(in)
	case protocol.TypeJoinRoom:
		s.joinRoom(in)
	case protocol.TypeSendMessage:
		s.sendMessage(in)
	case protocol.TypeSendFile:
		s.sendFile(in)
	case protocol.TypePrivateMessage:
		s.privateMessage(in)
	case protocol.TypeLeaveRoom:
		s.leaveRoom()
	}
}

func (s *Session) login(in protocol.Inbound) {
	if in.UserID == "" {
		s.Reject(protocol.CodeInvalidRequest)
		return
	}

	// The old identity is released only if no other connection took it over.
	if s.userID != "" && s.userID != in.UserID && s.stores.Registry.UnbindIf(s.userID, s.conn) {
		s.stores.Presence.SetOffline(s.userID)
	}
	s.clearRoom()

	s.userID = in.UserID
	s.stores.Registry.Bind(s.userID, s.conn)
	s.stores.Presence.SetOnline(s.userID)
	s.log = s.base.With(zap.String("user", s.userID))
	s.log.Info("user logged in", zap.Int("identities", s.stores.Registry.Len()))
}

func (s *Session) createRoom(in protocol.Inbound) {
	if !s.requireIdentity() {
		return
	}
	if in.RoomID == "" {
		s.Reject(protocol.CodeInvalidRequest)
		return
	}

	existed := s.stores.Rooms.Exists(in.RoomID)
	s.stores.Rooms.Ensure(in.RoomID)
	s.bindRoom(in.RoomID)
	s.reply(protocol.NewRoomCreated(in.RoomID))
	s.log.Info("room created", zap.String("room", in.RoomID), zap.Bool("existing", existed))
}

func (s *Session) joinRoom(in protocol.Inbound) {
	if !s.requireIdentity() {
		return
	}
	if in.RoomID == "" {
		s.Reject(protocol.CodeInvalidRequest)
		return
	}

	if !s.stores.Rooms.Exists(in.RoomID) {
		s.log.Debug("joining room that was never created", zap.String("room", in.RoomID))
	}
	s.stores.Rooms.Ensure(in.RoomID)
	s.bindRoom(in.RoomID)
	s.reply(protocol.NewChatHistory(s.stores.Rooms.History(in.RoomID)))
	s.hub.Broadcast(in.RoomID, protocol.JoinedNotice(s.userID))
	s.log.Info("joined room", zap.String("room", in.RoomID))
}

func (s *Session) sendMessage(in protocol.Inbound) {
	if !s.requireRoom() {
		return
	}

	msg := protocol.NewChat(s.userID, in.Content)
	if err := s.stores.Rooms.Append(s.roomID, msg); err != nil {
		s.log.Error("dropping message for unknown room", zap.String("room", s.roomID), zap.Error(err))
		s.Reject(protocol.CodeNotInRoom)
		return
	}
	s.hub.Broadcast(s.roomID, msg)
}

// sendFile broadcasts a file to the room. Files are not kept in history.
func (s *Session) sendFile(in protocol.Inbound) {
	if !s.requireRoom() {
		return
	}

	s.hub.Broadcast(s.roomID, protocol.NewFile(s.userID, in.FileName, in.FileContent))
	s.log.Debug("file shared", zap.String("room", s.roomID), zap.String("file", in.FileName))
}

// privateMessage delivers directly to the recipient's connection. Unknown
// or closed recipients are silently skipped.
func (s *Session) privateMessage(in protocol.Inbound) {
	if !s.requireIdentity() {
		return
	}

	recipient, ok := s.stores.Registry.Lookup(in.RecipientID)
	if !ok {
		s.log.Debug("private message recipient not connected", zap.String("recipient", in.RecipientID))
		return
	}

	frame, err := protocol.Encode(protocol.NewPrivate(s.userID, in.Content))
	if err != nil {
		s.log.Error("failed to encode private message", zap.Error(err))
		return
	}
	if !recipient.Enqueue(frame) {
		s.log.Debug("private message not delivered", zap.String("recipient", in.RecipientID))
	}
}

func (s *Session) leaveRoom() {
	if !s.requireRoom() {
		return
	}

	roomID := s.roomID
	s.hub.Broadcast(roomID, protocol.LeftNotice(s.userID))
	s.clearRoom()
	s.log.Info("left room", zap.String("room", roomID))
}

// Close releases everything bound to the session after its transport has
// closed. No leave notification is broadcast.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.clearRoom()
	if s.userID != "" {
		s.stores.Registry.Unbind(s.userID)
		s.stores.Presence.SetOffline(s.userID)
	}
	s.log.Debug("session closed")
}

// Reject answers the client with an error frame for code.
func (s *Session) Reject(code string) {
	s.reply(protocol.NewError(code))
}

func (s *Session) requireIdentity() bool {
	if s.userID == "" {
		s.Reject(protocol.CodeNotIdentified)
		return false
	}
	return true
}

func (s *Session) requireRoom() bool {
	if !s.requireIdentity() {
		return false
	}
	if s.roomID == "" {
		s.Reject(protocol.CodeNotInRoom)
		return false
	}
	return true
}

func (s *Session) bindRoom(roomID string) {
	s.roomID = roomID
	s.hub.BindRoom(s.conn, roomID)
}

func (s *Session) clearRoom() {
	if s.roomID == "" {
		return
	}
	s.roomID = ""
	s.hub.UnbindRoom(s.conn)
}

func (s *Session) reply(frame any) {
	data, err := protocol.Encode(frame)
	if err != nil {
		s.log.Error("failed to encode reply", zap.Error(err))
		return
	}
	if !s.conn.Enqueue(data) {
		s.log.Debug("reply dropped, connection not accepting data")
	}
}
