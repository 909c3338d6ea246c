package framing

import (
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"io"
)

// IFramer delimits messages on a byte stream. One framer instance is shared by
// all connections of a transport, implementations must therefore be stateless.
type IFramer interface {
	// Name returns the framing mode
	Name() common.FramingMode
	// ReadFrame reads one complete request. It returns io.EOF if the peer closed the
	// connection before sending anything and common.ErrCapacityExceeded if the
	// message is larger than the configured maximum.
	ReadFrame(r io.Reader) ([]byte, error)
	// WriteFrame writes one message (request or response)
	WriteFrame(w io.Writer, data []byte) error
	// ReadResponse reads the response to a request on the client side
	ReadResponse(r io.Reader) ([]byte, error)
}

// New creates the framer selected by config.Mode. Zero sizes fall back to the defaults.
func New(config common.FramingConfig) (IFramer, error) {
	if config.ChunkSize <= 0 {
		config.ChunkSize = common.DefaultChunkSize
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = common.DefaultMaxMessageSize
	}
	if config.ResponseBufferSize <= 0 {
		config.ResponseBufferSize = common.DefaultResponseBufferSize
	}

	switch config.Mode {
	case common.FramingLegacy, "":
		return NewLegacyFramer(config.ChunkSize, config.MaxMessageSize, config.ResponseBufferSize), nil
	case common.FramingPrefixed:
		return NewPrefixedFramer(config.MaxMessageSize), nil
	default:
		return nil, fmt.Errorf("invalid framing mode %s", config.Mode)
	}
}
