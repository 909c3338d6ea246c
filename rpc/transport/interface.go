package transport

import (
	"context"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"net"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests.
// It is called by a server transport exactly once per connection (or http request).
// frameErr is non-nil if the request could not be read completely, e.g.
// common.ErrCapacityExceeded; the handler must still produce a response.
type ServerHandleFunc func(req []byte, frameErr error) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen creates the listener for config.Endpoint and serves it until Close is called
	Listen(config common.ServerConfig) error
	// Serve accepts connections on an existing listener until Close is called
	Serve(listener net.Listener, config common.ServerConfig) error
	// Close stops accepting new connections. Connections in flight are not interrupted.
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration.
	// No connection is established, every Send uses a fresh connection.
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the raw response.
	// Failures are reported as *common.TransportError and are not retried.
	Send(ctx context.Context, req []byte) (resp []byte, err error)
	// Close releases all resources of the transport
	Close() error
}
