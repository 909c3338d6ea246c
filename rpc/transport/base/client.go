package base

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/transport"
	"github.com/ValentinKolb/dTodo/rpc/transport/framing"
	"github.com/lni/dragonboat/v4/logger"
	"net"
	"time"
)

var Logger = logger.GetLogger("transport")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Dial establishes a single connection to the endpoint
	Dial(ctx context.Context, endpoint string) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.).
// It holds no connection: every Send dials, writes, reads and closes.
type clientTransport struct {
	connector IClientConnector
	config    common.ClientConfig
	framer    framing.IFramer
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if config.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}

	framer, err := framing.New(config.Framing)
	if err != nil {
		return err
	}

	t.config = config
	t.framer = framer

	Logger.Debugf("Using %s transport to %s with %s framing", t.connector.GetName(), config.Endpoint, framer.Name())
	return nil
}

func (t *clientTransport) Send(ctx context.Context, req []byte) ([]byte, error) {
	if t.framer == nil {
		return nil, &common.TransportError{Op: "dial", Err: fmt.Errorf("transport not connected")}
	}

	if t.config.TimeoutSecond > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t.config.TimeoutSecond)*time.Second)
		defer cancel()
	}

	// Open a fresh connection for this request
	conn, err := t.connector.Dial(ctx, t.config.Endpoint)
	if err != nil {
		return nil, &common.TransportError{Op: "dial", Err: err}
	}
	defer conn.Close()

	if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
		return nil, &common.TransportError{Op: "dial", Err: err}
	}

	// Abort blocking I/O once the context is done
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	// Write the request
	if err := t.framer.WriteFrame(conn, req); err != nil {
		return nil, &common.TransportError{Op: "write", Err: contextErr(ctx, err)}
	}

	// Read the response
	resp, err := t.framer.ReadResponse(conn)
	if err != nil {
		return nil, &common.TransportError{Op: "read", Err: contextErr(ctx, err)}
	}
	return resp, nil
}

func (t *clientTransport) Close() error {
	t.framer = nil
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// contextErr prefers the context error over the deadline error it caused
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
