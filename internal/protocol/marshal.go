package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
)

// ErrUnknownMessageType is returned for values or frames that are not protocol messages.
var ErrUnknownMessageType = errors.New("unknown message type")

// Pool of buffers to avoid allocation and ensure thread safety
var bufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

// Marshal serializes a message to JSON
func Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case *Hello, *Action, *RoundStart, *ActionRequest, *RoundOver, *GameOver, *Error:
	default:
		return nil, ErrUnknownMessageType
	}

	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}

	// Create a copy to avoid aliasing the pooled buffer
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Unmarshal deserializes JSON data into a message
func Unmarshal(data []byte, v any) error {
	switch v.(type) {
	case *Hello, *Action, *RoundStart, *ActionRequest, *RoundOver, *GameOver, *Error:
		return json.Unmarshal(data, v)
	default:
		return ErrUnknownMessageType
	}
}

// PeekType returns the type field of a frame without decoding the rest.
func PeekType(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	switch head.Type {
	case TypeHello, TypeAction, TypeRoundStart, TypeActionRequest, TypeRoundOver, TypeGameOver, TypeError:
		return head.Type, nil
	default:
		return "", ErrUnknownMessageType
	}
}

// Decode reads a frame into a freshly allocated message of the right type.
func Decode(data []byte) (any, error) {
	t, err := PeekType(data)
	if err != nil {
		return nil, err
	}

	var msg any
	switch t {
	case TypeHello:
		msg = &Hello{}
	case TypeAction:
		msg = &Action{}
	case TypeRoundStart:
		msg = &RoundStart{}
	case TypeActionRequest:
		msg = &ActionRequest{}
	case TypeRoundOver:
		msg = &RoundOver{}
	case TypeGameOver:
		msg = &GameOver{}
	case TypeError:
		msg = &Error{}
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
