// Package transport defines the interfaces and abstractions for RPC communication
// between the dTodo client and server. It provides a common contract that all transport
// implementations must fulfill, enabling protocol-agnostic communication.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - A strict request/response model: one request per connection
//   - Enabling multiple transport implementations (HTTP, TCP, Unix sockets)
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     opens a connection per request, sends it and reads the response.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     accept connections and pass every request to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
//
// The sub package framing decides where a message ends on stream transports.
package transport
