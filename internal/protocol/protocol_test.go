package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Inbound
		wantErr error
	}{
		{
			name: "login",
			raw:  `{"type":"login","userId":"alice"}`,
			want: Inbound{Type: TypeLogin, UserID: "alice"},
		},
		{
			name: "join room",
			raw:  `{"type":"join_room","roomId":"lobby","userId":"bob"}`,
			want: Inbound{Type: TypeJoinRoom, RoomID: "lobby", UserID: "bob"},
		},
		{
			name: "send file",
			raw:  `{"type":"send_file","fileName":"a.txt","fileContent":"aGk="}`,
			want: Inbound{Type: TypeSendFile, FileName: "a.txt", FileContent: "aGk="},
		},
		{
			name: "private message",
			raw:  `{"type":"private_message","recipientId":"bob","content":"psst"}`,
			want: Inbound{Type: TypePrivateMessage, RecipientID: "bob", Content: "psst"},
		},
		{
			name:    "not json",
			raw:     `hello`,
			wantErr: ErrMalformed,
		},
		{
			name:    "type is not a string",
			raw:     `{"type":7}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "unknown type",
			raw:     `{"type":"dance"}`,
			want:    Inbound{Type: "dance"},
			wantErr: ErrUnknownType,
		},
		{
			name:    "missing type",
			raw:     `{"userId":"alice"}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "null",
			raw:     `null`,
			wantErr: ErrMalformed,
		},
		{
			name:    "array",
			raw:     `[{"type":"login"}]`,
			wantErr: ErrMalformed,
		},
		{
			name:    "bare string",
			raw:     `"login"`,
			wantErr: ErrMalformed,
		},
		{
			name:    "empty type",
			raw:     `{"type":""}`,
			want:    Inbound{},
			wantErr: ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeChatHistoryIsAlwaysArray(t *testing.T) {
	data, err := Encode(NewChatHistory(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"chat_history","history":[]}`, string(data))
}

func TestEncodeMessageKinds(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"chat", NewChat("alice", "hi"), `{"type":"message","userId":"alice","content":"hi"}`},
		{"file", NewFile("alice", "a.txt", "aGk="), `{"type":"file","userId":"alice","fileName":"a.txt","fileContent":"aGk="}`},
		{"notification", JoinedNotice("bob"), `{"type":"notification","content":"bob joined the room."}`},
		{"private", NewPrivate("alice", "psst"), `{"type":"private_message","userId":"alice","content":"psst"}`},
		{"empty chat", NewChat("alice", ""), `{"type":"message","userId":"alice","content":""}`},
		{"empty file", NewFile("alice", "empty.txt", ""), `{"type":"file","userId":"alice","fileName":"empty.txt","fileContent":""}`},
		{"empty private", NewPrivate("alice", ""), `{"type":"private_message","userId":"alice","content":""}`},
		{"empty notification", NewNotification(""), `{"type":"notification","content":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestEncodeHistoryKeepsEmptyContent(t *testing.T) {
	data, err := Encode(NewChatHistory([]Message{NewChat("alice", "")}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"chat_history","history":[{"type":"message","userId":"alice","content":""}]}`, string(data))
}

func TestNewError(t *testing.T) {
	frame := NewError(CodeNotInRoom)
	assert.Equal(t, TypeError, frame.Type)
	assert.Equal(t, CodeNotInRoom, frame.Code)
	assert.NotEmpty(t, frame.Content)
}
