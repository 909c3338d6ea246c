// Package rpc implements the command protocol between the dTodo client and server.
// One connection carries exactly one command and its response.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures used across the protocol, including the Command
//     variants, the Response shapes, todo records, errors, configuration and logging.
//
//   - codec: Command and response encoding with multiple formats (Binary, JSON, GOB).
//     The binary codec is the wire format of the legacy clients.
//
//   - transport: Network communication with pluggable implementations (TCP, Unix
//     sockets, HTTP) and the framers that delimit messages on stream transports.
//
//   - server: Decodes a request, dispatches it to the owner store and encodes the
//     response, with metrics and a request monitor.
//
//   - client: The typed client request helper used by the cache and the CLI.
package rpc
