package base

import (
	"io"
	"net"
	"time"
)

const (
	maxAcceptBackoff = time.Second
	drainTimeout     = time.Second
	maxDrainBytes    = 1 << 20
)

// halfCloser is implemented by *net.TCPConn and *net.UnixConn
type halfCloser interface {
	CloseWrite() error
	CloseRead() error
}

// shutdown closes both directions of the connection after the response was written.
// If the request was not read completely the remaining input is discarded first,
// closing a socket with unread data resets the connection and the peer may lose the response.
func shutdown(conn net.Conn, drain bool) {
	hc, ok := conn.(halfCloser)
	if !ok {
		return
	}

	if err := hc.CloseWrite(); err != nil {
		Logger.Debugf("Failed to close write side: %v", err)
		return
	}

	if drain {
		_ = conn.SetReadDeadline(time.Now().Add(drainTimeout))
		_, _ = io.CopyN(io.Discard, conn, maxDrainBytes)
	}

	_ = hc.CloseRead()
}

// nextBackoff doubles the accept backoff, starting at 5ms
func nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return 5 * time.Millisecond
	}
	current *= 2
	if current > maxAcceptBackoff {
		current = maxAcceptBackoff
	}
	return current
}
