package common

import (
	"errors"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Domain Errors
// --------------------------------------------------------------------------

// The texts of these errors are part of the wire protocol: they are sent as
// plain string responses and mapped back by ParseRemoteError.
var (
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrOwnerExists      = errors.New("owner already exists")
	ErrListExists       = errors.New("owner already has a list")
	ErrInvalidCommand   = errors.New("invalid command")
	ErrCapacityExceeded = errors.New("buffer capacity exceeded")
)

// Cache side errors, never sent over the wire
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrRecordExists    = errors.New("record already exists")
	ErrRecordCompleted = errors.New("record is already completed")
)

// wireErrors are the errors that survive a round trip over the wire
var wireErrors = []error{
	ErrOwnerNotFound,
	ErrOwnerExists,
	ErrListExists,
	ErrInvalidCommand,
	ErrCapacityExceeded,
}

// --------------------------------------------------------------------------
// Error Types
// --------------------------------------------------------------------------

// DecodeError is returned by the codecs for garbled or truncated input
type DecodeError struct {
	Msg string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode command: %s", e.Msg)
}

// NewDecodeError creates a DecodeError with a formatted message
func NewDecodeError(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Msg: fmt.Sprintf(format, args...)}
}

// TransportError wraps connect, read and write failures on the client side
type TransportError struct {
	Op  string // dial, write, read
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is a string response that the client did not expect.
// If the text matches a known domain error, Unwrap returns it.
type RemoteError struct {
	Text string
	err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: %s", e.Text)
}

func (e *RemoteError) Unwrap() error {
	return e.err
}

// ValidationError is returned by the cache when a name is not part of the catalog
type ValidationError struct {
	Name    string
	Catalog Catalog
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%q is not available in the %s catalog", e.Name, e.Catalog)
}

// --------------------------------------------------------------------------
// Wire Conversion
// --------------------------------------------------------------------------

// ErrorText flattens an error into the text sent to the client.
// Known domain errors are sent without any wrapping context.
func ErrorText(err error) string {
	for _, known := range wireErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Error()
	}
	return err.Error()
}

// ParseRemoteError converts a string response into a *RemoteError, mapping
// known texts back to their sentinel errors.
func ParseRemoteError(text string) error {
	remote := &RemoteError{Text: text}
	for _, known := range wireErrors {
		if text == known.Error() {
			remote.err = known
			return remote
		}
	}
	if strings.HasPrefix(text, "failed to decode command: ") {
		remote.err = &DecodeError{Msg: strings.TrimPrefix(text, "failed to decode command: ")}
	}
	return remote
}
