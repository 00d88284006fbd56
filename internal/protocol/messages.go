// Package protocol defines the JSON frames exchanged between chat clients and
// the relay, and decodes inbound frames.
package protocol

import "encoding/json"

// Inbound frame types.
const (
	TypeLogin          = "login"
	TypeCreateRoom     = "create_room"
	TypeJoinRoom       = "join_room"
	TypeSendMessage    = "send_message"
	TypeSendFile       = "send_file"
	TypePrivateMessage = "private_message"
	TypeLeaveRoom      = "leave_room"
)

// Outbound frame types. TypePrivateMessage is shared by both directions.
const (
	TypeRoomCreated  = "room_created"
	TypeChatHistory  = "chat_history"
	TypeNotification = "notification"
	TypeMessage      = "message"
	TypeFile         = "file"
	TypeError        = "error"
)

// Inbound is a client frame. Only the fields relevant to Type are populated.
type Inbound struct {
	Type        string `json:"type"`
	UserID      string `json:"userId,omitempty"`
	RoomID      string `json:"roomId,omitempty"`
	Content     string `json:"content,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	FileContent string `json:"fileContent,omitempty"`
	RecipientID string `json:"recipientId,omitempty"`
}

// Message is a tagged chat record. It is used both as an outbound frame and
// as a room history entry. Type is one of TypeMessage, TypeFile,
// TypeNotification or TypePrivateMessage.
type Message struct {
	Type        string `json:"type"`
	UserID      string `json:"userId,omitempty"`
	Content     string `json:"content,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	FileContent string `json:"fileContent,omitempty"`
}

// MarshalJSON always emits the fields each kind carries, even when empty.
// Only kinds without a sender, such as notifications, omit userId.
func (m Message) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case TypeMessage, TypePrivateMessage:
		return json.Marshal(struct {
			Type    string `json:"type"`
			UserID  string `json:"userId"`
			Content string `json:"content"`
		}{m.Type, m.UserID, m.Content})
	case TypeFile:
		return json.Marshal(struct {
			Type        string `json:"type"`
			UserID      string `json:"userId"`
			FileName    string `json:"fileName"`
			FileContent string `json:"fileContent"`
		}{m.Type, m.UserID, m.FileName, m.FileContent})
	case TypeNotification:
		return json.Marshal(struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}{m.Type, m.Content})
	default:
		type plain Message
		return json.Marshal(plain(m))
	}
}

// RoomCreated acknowledges a create_room request.
type RoomCreated struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

// ChatHistory carries the full history of a room to a joining client.
type ChatHistory struct {
	Type    string    `json:"type"`
	History []Message `json:"history"`
}

// ErrorFrame reports a rejected request back to its sender.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Content string `json:"content,omitempty"`
}

// NewChat builds a chat text message.
func NewChat(userID, content string) Message {
	return Message{Type: TypeMessage, UserID: userID, Content: content}
}

// NewFile builds a file transfer message.
func NewFile(userID, fileName, fileContent string) Message {
	return Message{Type: TypeFile, UserID: userID, FileName: fileName, FileContent: fileContent}
}

// NewNotification builds a system notification. Notifications have no sender.
func NewNotification(content string) Message {
	return Message{Type: TypeNotification, Content: content}
}

// NewPrivate builds a direct message from userID.
func NewPrivate(userID, content string) Message {
	return Message{Type: TypePrivateMessage, UserID: userID, Content: content}
}

// NewRoomCreated builds a room_created acknowledgement.
func NewRoomCreated(roomID string) RoomCreated {
	return RoomCreated{Type: TypeRoomCreated, RoomID: roomID}
}

// NewChatHistory builds a chat_history frame. A nil history is sent as an
// empty array.
func NewChatHistory(history []Message) ChatHistory {
	if history == nil {
		history = []Message{}
	}
	return ChatHistory{Type: TypeChatHistory, History: history}
}

// JoinedNotice is the notification broadcast when identity joins a room.
func JoinedNotice(identity string) Message {
	return NewNotification(identity + " joined the room.")
}

// LeftNotice is the notification broadcast when identity leaves a room.
func LeftNotice(identity string) Message {
	return NewNotification(identity + " left the room.")
}
