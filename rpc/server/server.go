package server

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/dTodo/lib/store"
	"github.com/ValentinKolb/dTodo/rpc/codec"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"net"
	"net/http"
	"sync"
	"time"
)

var Logger = logger.GetLogger("rpc")

const monitorPeriod = 10 * time.Second

// NewRPCServer creates a new RPC server
// It takes a config, transport, codec and the factory of the remote store as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//		codec.NewBinaryCodec(),
//		memstore.Factory,
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	codec codec.ICodec,
	storeFactory store.Factory,
) *RPCServer {
	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return &RPCServer{
		config:       config,
		transport:    transport,
		codec:        codec,
		storeFactory: storeFactory,
		monitor:      NewMonitor(monitorPeriod, 10),
	}
}

// RPCServer connects a transport, a codec and the owner store
type RPCServer struct {
	config       common.ServerConfig
	transport    transport.IRPCServerTransport
	codec        codec.ICodec
	storeFactory store.Factory

	// mu guards the resources opened by init
	mu            sync.Mutex
	store         store.IOwnerStore
	adapter       IRPCServerAdapter
	monitor       *Monitor
	metricsServer *http.Server
}

// handle is the transport handler: decode, dispatch, encode.
// It never fails, every error becomes a string response.
func (s *RPCServer) handle(req []byte, frameErr error) []byte {
	start := time.Now()
	kind := "invalid"

	var resp common.Response
	var err error

	if frameErr != nil {
		// never decode a partial request
		err = frameErr
		resp = common.NewErrorResponse(err)
	} else {
		var cmd common.Command
		cmd, err = s.codec.DecodeCommand(req)
		if err != nil {
			resp = common.NewErrorResponse(err)
		} else {
			kind = cmd.Kind().String()

			ctx := context.Background()
			if s.config.TimeoutSecond > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(s.config.TimeoutSecond)*time.Second)
				defer cancel()
			}
			resp, err = s.adapter.Handle(ctx, cmd)
		}
	}

	if err != nil {
		Logger.Debugf("Request %s failed: %v", kind, err)
	}

	// Encode the response
	data, encErr := s.codec.EncodeResponse(resp)
	if encErr != nil {
		Logger.Errorf("Failed to encode response for %s: %v", kind, encErr)
		data, _ = s.codec.EncodeResponse(common.NewTextResponse(fmt.Sprintf("failed to encode response: %v", encErr)))
		err = encErr
	}

	observeRequest(kind, len(req), start, err)
	s.monitor.RequestServed(time.Since(start), err != nil)
	return data
}

// init opens the store and registers the transport handler
func (s *RPCServer) init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.storeFactory(s.config.Catalogs)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	s.store = st
	s.adapter = NewOwnerStoreAdapter(st)

	if s.config.MetricsEndpoint != "" {
		s.metricsServer, err = startMetricsServer(s.config.MetricsEndpoint)
		if err != nil {
			st.Close()
			return err
		}
	}

	s.monitor.Start()

	// Configure the transport layer
	s.transport.RegisterHandler(s.handle)

	Logger.Infof("dTodo setup completed successfully (%s codec, %s store)", s.codec.Name(), s.config.StoreEngine)
	return nil
}

// Serve starts the RPC server on config.Endpoint and blocks until Close is called
func (s *RPCServer) Serve() error {
	if err := s.init(); err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// ServeListener starts the RPC server on an existing listener and blocks until Close is called
func (s *RPCServer) ServeListener(listener net.Listener) error {
	if err := s.init(); err != nil {
		return err
	}
	return s.transport.Serve(listener, s.config)
}

// Close stops the transport and releases the store
func (s *RPCServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.transport.Close()
	s.monitor.Stop()
	if s.metricsServer != nil {
		_ = s.metricsServer.Close()
	}
	if s.store != nil {
		if closeErr := s.store.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
