package protocol

import "github.com/pkg/errors"

// Error codes sent to clients in ErrorFrame.Code.
const (
	CodeMalformed      = "malformed"
	CodeNotIdentified  = "not_identified"
	CodeNotInRoom      = "not_in_room"
	CodeInvalidRequest = "invalid_request"
	CodeRateLimited    = "rate_limited"
)

var (
	// ErrMalformed is returned when a frame is not a JSON object with a
	// string type field.
	ErrMalformed = errors.New("malformed frame")

	// ErrUnknownType is returned for frames whose type is not part of the
	// protocol.
	ErrUnknownType = errors.New("unknown frame type")
)

var errorText = map[string]string{
	CodeMalformed:      "message could not be parsed",
	CodeNotIdentified:  "login first",
	CodeNotInRoom:      "join a room first",
	CodeInvalidRequest: "required field missing",
	CodeRateLimited:    "rate limit exceeded, slow down",
}

// NewError builds an error frame for code with its default description.
func NewError(code string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Code: code, Content: errorText[code]}
}
