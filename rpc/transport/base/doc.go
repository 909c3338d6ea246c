// Package base provides a foundation for the stream transports of dTodo (TCP and Unix
// sockets). It implements the connection handling independent of the specific network
// protocol and is extended with protocol-specific connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - A strict request/response model: one request and one response per connection
//   - Pluggable message framing (see package framing)
//   - Errors that terminate a single connection, never the accept loop
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - clientTransport: Core client implementation. Every Send dials a new connection,
//     writes the request, reads the response and closes the connection. There is no
//     pooling, keep-alive or retry; failures are returned as *common.TransportError.
//
//   - serverTransport: Core server implementation. An endless accept loop spawns one
//     goroutine per connection which reads one frame, calls the handler exactly once,
//     writes the response and shuts down both directions of the connection. Every
//     connection is tagged with a uuid in the log.
//
// Resource Model:
//
//	The number of connections is not limited. Without a configured timeout a client
//	that never finishes its request keeps its goroutine alive; with the legacy framing
//	this includes requests whose length is an exact multiple of the chunk size.
//
// Thread Safety:
//
//	All public methods are thread-safe. The server creates a dedicated goroutine for
//	each connection and shares nothing between them except the registered handler.
package base
