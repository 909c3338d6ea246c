// Package tcp implements the TCP socket transport of the dTodo RPC system. It provides
// concrete implementations of the base package's connector interfaces.
//
// This package builds on the base package's transport functionality: one request per
// connection and pluggable framing. See the base package documentation for details.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector
//
// Both connectors apply the socket options of common.TCPConf (no delay, keep-alive,
// linger) to every connection.
package tcp
