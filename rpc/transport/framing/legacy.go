package framing

import (
	"github.com/ValentinKolb/dTodo/rpc/common"
	"io"
)

// NewLegacyFramer creates a framer that infers the end of a message from a short read.
//
// The server reads chunks of chunkSize bytes and stops at the first read returning
// fewer bytes. A message whose length is an exact multiple of chunkSize is therefore
// never completed: the server keeps waiting for a chunk the client will not send.
// Clients read the response with a single read into a buffer of responseSize bytes,
// longer responses are truncated.
func NewLegacyFramer(chunkSize, maxSize, responseSize int) IFramer {
	return &legacyFramer{
		chunkSize:    chunkSize,
		maxSize:      maxSize,
		responseSize: responseSize,
	}
}

type legacyFramer struct {
	chunkSize    int
	maxSize      int
	responseSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see framing.IFramer)
// --------------------------------------------------------------------------

func (f *legacyFramer) Name() common.FramingMode {
	return common.FramingLegacy
}

func (f *legacyFramer) ReadFrame(r io.Reader) ([]byte, error) {
	chunk := make([]byte, f.chunkSize)
	var message []byte

	for {
		n, err := r.Read(chunk)
		message = append(message, chunk[:n]...)

		// never decode an oversized message
		if len(message) > f.maxSize {
			return nil, common.ErrCapacityExceeded
		}

		if err == io.EOF {
			if len(message) == 0 {
				return nil, io.EOF
			}
			return message, nil
		}
		if err != nil {
			return nil, err
		}

		// a short read ends the message
		if n > 0 && n < f.chunkSize {
			return message, nil
		}
	}
}

func (f *legacyFramer) WriteFrame(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}

func (f *legacyFramer) ReadResponse(r io.Reader) ([]byte, error) {
	buf := make([]byte, f.responseSize)
	n, err := r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return nil, err
}
