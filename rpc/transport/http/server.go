package http

import (
	"errors"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

var Logger = logger.GetLogger("transport")

const (
	// RPCPath is the path of the rpc endpoint
	RPCPath = "/rpc"
	// contentType of requests and responses
	contentType = "application/octet-stream"
)

func NewHttpServerTransport() transport.IRPCServerTransport {
	return &httpServerTransport{}
}

type httpServerTransport struct {
	handler transport.ServerHandleFunc
	config  common.ServerConfig

	serverMu sync.Mutex
	server   *http.Server
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *httpServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *httpServerTransport) Listen(config common.ServerConfig) error {
	listener, err := net.Listen("tcp", config.Endpoint)
	if err != nil {
		return err
	}
	return t.Serve(listener, config)
}

func (t *httpServerTransport) Serve(listener net.Listener, config common.ServerConfig) error {
	if t.handler == nil {
		return errors.New("no handler registered")
	}
	t.config = config

	server := &http.Server{Handler: t.Router()}
	if config.TimeoutSecond > 0 {
		timeout := time.Duration(config.TimeoutSecond) * time.Second
		server.ReadTimeout = timeout
		server.WriteTimeout = timeout
	}

	t.serverMu.Lock()
	t.server = server
	t.serverMu.Unlock()

	Logger.Infof("Starting HTTP server on %s", listener.Addr())

	// Set up the server with the address and handler
	if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (t *httpServerTransport) Close() error {
	t.serverMu.Lock()
	defer t.serverMu.Unlock()
	if t.server == nil {
		return nil
	}
	return t.server.Close()
}

// Router returns the routes of the transport:
//   - POST /rpc      one encoded command per request body
//   - GET  /         health check
//   - GET  /metrics  prometheus metrics
func (t *httpServerTransport) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(loggerMiddleware)

	r.Methods(http.MethodGet).Path("/").HandlerFunc(handleHealth)
	r.Methods(http.MethodGet).Path("/metrics").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	// registered last, mux only keeps the method mismatch of the last route tried
	r.Methods(http.MethodPost).Path(RPCPath).HandlerFunc(t.handleRequest)
	return r
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleRequest passes the request body to the handler and writes the response.
// Bodies larger than the maximum message size are answered with the capacity error.
func (t *httpServerTransport) handleRequest(w http.ResponseWriter, r *http.Request) {
	maxSize := t.config.Framing.MaxMessageSize
	if maxSize <= 0 {
		maxSize = common.DefaultMaxMessageSize
	}

	// Read request body
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(maxSize)))
	defer r.Body.Close()

	var frameErr error
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		frameErr = common.ErrCapacityExceeded
		body = nil
	case err != nil:
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	// Send the handler
	resp := t.handler(body, frameErr)

	// Write response
	w.Header().Set("Content-Type", contentType)
	if _, err = w.Write(resp); err != nil {
		Logger.Errorf("Failed to write response: %v", err)
	}
}

// handleHealth answers the health check at /
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "dTodo server is running\n")
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		Logger.Debugf("%s %s => %d (%d bytes) took %s", r.Method, r.URL.Path, m.Code, m.Written, m.Duration)
	})
}
