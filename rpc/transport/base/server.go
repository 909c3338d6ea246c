package base

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/transport"
	"github.com/ValentinKolb/dTodo/rpc/transport/framing"
	"github.com/google/uuid"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector IServerConnector
	handler   transport.ServerHandleFunc
	config    common.ServerConfig
	framer    framing.IFramer

	listenerMu sync.Mutex
	listener   net.Listener
	closed     atomic.Bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport that handles every
// accepted connection in its own goroutine
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}
	return t.Serve(listener, config)
}

func (t *serverTransport) Serve(listener net.Listener, config common.ServerConfig) error {
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}

	framer, err := framing.New(config.Framing)
	if err != nil {
		return err
	}
	t.config = config
	t.framer = framer

	t.listenerMu.Lock()
	t.listener = listener
	t.listenerMu.Unlock()

	Logger.Infof("Starting %s server on %s with %s framing",
		t.connector.GetName(), listener.Addr(), framer.Name())

	// Accept connections until the transport is closed
	var backoff time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if t.closed.Load() {
				Logger.Infof("Stopped accepting connections on %s", listener.Addr())
				return nil
			}
			backoff = nextBackoff(backoff)
			Logger.Errorf("Accept error: %v (retrying in %s)", err, backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		// Handle the connection in a goroutine
		go t.handleConnection(conn)
	}
}

func (t *serverTransport) Close() error {
	t.closed.Store(true)

	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleConnection reads exactly one request, answers it and closes the connection.
// I/O errors terminate the connection without a response.
func (t *serverTransport) handleConnection(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	Logger.Debugf("[%s] Accepted connection from %s", connID, conn.RemoteAddr())

	if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
		Logger.Errorf("[%s] Failed to upgrade connection: %v", connID, err)
		return
	}

	// Timeout in seconds, 0 means a client may hold the connection forever
	timeout := time.Duration(t.config.TimeoutSecond) * time.Second

	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			Logger.Errorf("[%s] Failed to set read deadline: %v", connID, err)
			return
		}
	}

	// Read the request
	start := time.Now()
	req, frameErr := t.framer.ReadFrame(conn)
	switch {
	case frameErr == io.EOF:
		Logger.Debugf("[%s] Connection closed by client before sending a request", connID)
		return
	case errors.Is(frameErr, common.ErrCapacityExceeded):
		Logger.Warningf("[%s] Request exceeds %d bytes", connID, t.config.Framing.MaxMessageSize)
	case frameErr != nil:
		Logger.Errorf("[%s] Error reading request: %v", connID, frameErr)
		return
	}

	// Process the request
	resp := t.handler(req, frameErr)

	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			Logger.Errorf("[%s] Failed to set write deadline: %v", connID, err)
			return
		}
	}

	// Write the response
	if err := t.framer.WriteFrame(conn, resp); err != nil {
		Logger.Errorf("[%s] Failed to write response: %v", connID, err)
		return
	}
	Logger.Debugf("[%s] Processed request of %d bytes in %s", connID, len(req), time.Since(start))

	shutdown(conn, frameErr != nil)
}
