package codec

import (
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// ICodec is the interface for all command codecs.
// A codec turns commands and responses into bytes and back. The decode
// methods never panic: garbled or truncated input returns a *common.DecodeError.
type ICodec interface {
	// Name returns the name of the codec (e.g. "binary")
	Name() string

	// EncodeCommand serializes a command, including its discriminant
	EncodeCommand(cmd common.Command) ([]byte, error)
	// DecodeCommand deserializes a command produced by EncodeCommand
	DecodeCommand(b []byte) (common.Command, error)

	// EncodeResponse serializes a response according to its kind
	EncodeResponse(resp common.Response) ([]byte, error)
	// DecodeString deserializes a plain string response
	DecodeString(b []byte) (string, error)
	// DecodeOptionalString deserializes an optional string response (nil = none)
	DecodeOptionalString(b []byte) (*string, error)
	// DecodeStrings deserializes a string list response
	DecodeStrings(b []byte) ([]string, error)
}

// New returns the codec with the given name (binary, json or gob)
func New(name string) (ICodec, error) {
	switch name {
	case "binary":
		return NewBinaryCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	case "gob":
		return NewGOBCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s (expected binary, json or gob)", name)
	}
}
