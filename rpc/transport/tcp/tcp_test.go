package tcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/transport"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testChunkSize = 8
	testMaxSize   = 32
)

// echoHandler answers with the request, or with the frame error text
func echoHandler(calls *atomic.Int64) transport.ServerHandleFunc {
	return func(req []byte, frameErr error) []byte {
		calls.Add(1)
		if frameErr != nil {
			return []byte(frameErr.Error())
		}
		return append([]byte("echo:"), req...)
	}
}

// startServer starts a tcp server on a random port and returns its address
func startServer(t *testing.T, mode common.FramingMode, calls *atomic.Int64) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	config := common.ServerConfig{
		Endpoint: listener.Addr().String(),
		Framing: common.FramingConfig{
			Mode:               mode,
			ChunkSize:          testChunkSize,
			MaxMessageSize:     testMaxSize,
			ResponseBufferSize: 256,
		},
	}

	server := NewTCPServerTransport()
	server.RegisterHandler(echoHandler(calls))
	go func() {
		_ = server.Serve(listener, config)
	}()
	t.Cleanup(func() { _ = server.Close() })

	return config.Endpoint
}

// newClient creates a connected client transport
func newClient(t *testing.T, endpoint string, mode common.FramingMode) transport.IRPCClientTransport {
	t.Helper()

	client := NewTCPClientTransport()
	err := client.Connect(common.ClientConfig{
		Endpoint: endpoint,
		Framing: common.FramingConfig{
			Mode:               mode,
			ChunkSize:          testChunkSize,
			MaxMessageSize:     testMaxSize,
			ResponseBufferSize: 256,
		},
	})
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRequestResponse(t *testing.T) {
	for _, mode := range []common.FramingMode{common.FramingLegacy, common.FramingPrefixed} {
		t.Run(string(mode), func(t *testing.T) {
			var calls atomic.Int64
			endpoint := startServer(t, mode, &calls)
			client := newClient(t, endpoint, mode)

			for _, msg := range []string{"a", "hello", "0123456789"} {
				resp, err := client.Send(context.Background(), []byte(msg))
				if err != nil {
					t.Fatalf("Send failed: %v", err)
				}
				if string(resp) != "echo:"+msg {
					t.Errorf("Expected %q, got %q", "echo:"+msg, resp)
				}
			}

			if calls.Load() != 3 {
				t.Errorf("Expected one handler call per request, got %d", calls.Load())
			}
		})
	}
}

func TestOverCapacity(t *testing.T) {
	for _, mode := range []common.FramingMode{common.FramingLegacy, common.FramingPrefixed} {
		t.Run(string(mode), func(t *testing.T) {
			var calls atomic.Int64
			endpoint := startServer(t, mode, &calls)

			// the client side has no limit on what it sends
			client := NewTCPClientTransport()
			if err := client.Connect(common.ClientConfig{
				Endpoint: endpoint,
				Framing:  common.FramingConfig{Mode: mode, ChunkSize: testChunkSize},
			}); err != nil {
				t.Fatalf("Failed to connect: %v", err)
			}

			resp, err := client.Send(context.Background(), bytes.Repeat([]byte{'x'}, testMaxSize+testChunkSize))
			if err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			if string(resp) != common.ErrCapacityExceeded.Error() {
				t.Errorf("Expected capacity error response, got %q", resp)
			}
		})
	}
}

func TestLegacyStallDoesNotBlockOthers(t *testing.T) {
	var calls atomic.Int64
	endpoint := startServer(t, common.FramingLegacy, &calls)
	client := newClient(t, endpoint, common.FramingLegacy)

	// a request of exactly one chunk is never completed by the server
	stalled := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		_, err := client.Send(ctx, bytes.Repeat([]byte{'s'}, testChunkSize))
		stalled <- err
	}()

	// meanwhile other requests are served
	resp, err := client.Send(context.Background(), []byte("other"))
	if err != nil || string(resp) != "echo:other" {
		t.Fatalf("Expected concurrent request to succeed, got %q (%v)", resp, err)
	}

	err = <-stalled
	var transportErr *common.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected transport error for the stalled request, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestConcurrentRequests(t *testing.T) {
	var calls atomic.Int64
	endpoint := startServer(t, common.FramingPrefixed, &calls)
	client := newClient(t, endpoint, common.FramingPrefixed)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := fmt.Sprintf("req-%d", i)
			resp, err := client.Send(context.Background(), []byte(msg))
			if err != nil {
				errs <- err
				return
			}
			if string(resp) != "echo:"+msg {
				errs <- fmt.Errorf("cross talk: sent %q, got %q", msg, resp)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestDialError(t *testing.T) {
	// reserve a port and close it again, nothing listens there
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	endpoint := listener.Addr().String()
	listener.Close()

	client := newClient(t, endpoint, common.FramingLegacy)
	_, err = client.Send(context.Background(), []byte("x"))

	var transportErr *common.TransportError
	if !errors.As(err, &transportErr) || transportErr.Op != "dial" {
		t.Errorf("Expected dial transport error, got %v", err)
	}
}

func TestServerSurvivesSilentClients(t *testing.T) {
	var calls atomic.Int64
	endpoint := startServer(t, common.FramingLegacy, &calls)

	// connect and disconnect without sending anything
	for i := 0; i < 5; i++ {
		conn, err := net.Dial("tcp", endpoint)
		if err != nil {
			t.Fatalf("Failed to dial: %v", err)
		}
		conn.Close()
	}

	client := newClient(t, endpoint, common.FramingLegacy)
	resp, err := client.Send(context.Background(), []byte("still there"))
	if err != nil || string(resp) != "echo:still there" {
		t.Fatalf("Expected server to keep serving, got %q (%v)", resp, err)
	}
	if calls.Load() != 1 {
		t.Errorf("Silent clients must not reach the handler, got %d calls", calls.Load())
	}
}
