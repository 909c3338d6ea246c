// Package server implements the RPC server of dTodo. It connects a transport, a codec
// and the remote owner store.
//
// The package focuses on:
//   - Turning one request into exactly one response: decode, dispatch, encode
//   - Converting every failure into a string response, so a failing command never
//     breaks the connection or the accept loop
//   - Observability: prometheus metrics and a periodic request monitor
//
// Key Components:
//
//   - IRPCServerAdapter: Interface of the dispatcher, with the Handle method that
//     executes a command against a backend.
//
//   - NewOwnerStoreAdapter: The dispatcher for store.IOwnerStore. Commands route
//     themselves to the matching handler method (common.Command.Accept), a command can
//     therefore never reach the wrong handler.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport, codec and store factory.
//
//   - Monitor: Logs requests per second and the moving average of the request duration.
//
// Responses:
//
//	Store       -> "INSERTED"
//	UpdateList  -> "UPDATED_TODO"
//	Get         -> Some(list), None for an owner without list, Some("USER_NOT_FOUND")
//	CreateOwner -> "CREATED_USER `<owner>`"
//	ListCatalog -> list of names
//	DeleteOwner -> "DELETED_USER"
//	any failure -> the error text, e.g. "owner not found"
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Endpoint: "0.0.0.0:8080",
//	  Framing:  common.DefaultFramingConfig(),
//	  LogLevel: "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  codec.NewBinaryCodec(),
//	  memstore.Factory,
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server handles every connection in its own goroutine. The only state shared
//	between them is the store, which is safe for concurrent use.
package server
