// Package unix implements the Unix domain socket transport of the dTodo RPC system,
// for clients running on the same machine as the server.
//
// This package extends the base transport layer with Unix socket-specific connectors
// while inheriting the connection handling and framing from the base package.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners, an existing socket file at the
//     endpoint path is removed first
package unix
