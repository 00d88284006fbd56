package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var knownTypes = map[string]struct{}{
	TypeLogin:          {},
	TypeCreateRoom:     {},
	TypeJoinRoom:       {},
	TypeSendMessage:    {},
	TypeSendFile:       {},
	TypePrivateMessage: {},
	TypeLeaveRoom:      {},
}

// Decode parses one inbound frame.
//
// Frames that are not JSON objects carrying a string "type" yield an error
// wrapping ErrMalformed. Well-formed frames with an unrecognized type are
// returned together with an error wrapping ErrUnknownType so the caller can
// still log the offending type.
func Decode(raw []byte) (Inbound, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Inbound{}, errors.Wrap(ErrMalformed, err.Error())
	}
	// A bare null unmarshals into a nil map without error.
	if fields == nil {
		return Inbound{}, errors.Wrap(ErrMalformed, "frame is not an object")
	}
	if _, ok := fields["type"]; !ok {
		return Inbound{}, errors.Wrap(ErrMalformed, "missing type")
	}

	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, errors.Wrap(ErrMalformed, err.Error())
	}
	if _, ok := knownTypes[in.Type]; !ok {
		return in, errors.Wrapf(ErrUnknownType, "type %q", in.Type)
	}
	return in, nil
}

// Encode serializes an outbound frame.
func Encode(frame any) ([]byte, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, errors.Wrap(err, "encode frame")
	}
	return data, nil
}
