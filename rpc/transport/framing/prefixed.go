package framing

import (
	"encoding/binary"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"io"
	"net"
)

const headerSize = 4

// NewPrefixedFramer creates a framer that sends every message with a
// 4 byte big endian length header:
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
//
// Requests and responses longer than maxSize are rejected before the payload is read.
func NewPrefixedFramer(maxSize int) IFramer {
	return &prefixedFramer{maxSize: maxSize}
}

type prefixedFramer struct {
	maxSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see framing.IFramer)
// --------------------------------------------------------------------------

func (f *prefixedFramer) Name() common.FramingMode {
	return common.FramingPrefixed
}

func (f *prefixedFramer) ReadFrame(r io.Reader) ([]byte, error) {
	return f.read(r)
}

func (f *prefixedFramer) WriteFrame(w io.Writer, data []byte) error {
	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(w)
	return err
}

func (f *prefixedFramer) ReadResponse(r io.Reader) ([]byte, error) {
	return f.read(r)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (f *prefixedFramer) read(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)

	// Read header, io.EOF is only returned if no byte was read
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	contentLength := binary.BigEndian.Uint32(header)
	if uint64(contentLength) > uint64(f.maxSize) {
		return nil, common.ErrCapacityExceeded
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return []byte{}, nil
	}

	data := make([]byte, contentLength)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return data, nil
}
