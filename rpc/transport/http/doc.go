// Package http implements an HTTP-based transport layer for the dTodo RPC system.
// It carries exactly the same encoded commands and responses as the stream transports,
// with HTTP taking care of the framing.
//
// Routes (gorilla/mux):
//
//   - POST /rpc: the request body is one encoded command, the response body the encoded
//     response. Bodies above the maximum message size are answered with the capacity
//     error response.
//   - GET /: health check
//   - GET /metrics: server metrics in prometheus format
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. Keep-alive is disabled so
//     every request uses its own connection; failures are not retried.
//
//   - httpServerTransport: Implements IRPCServerTransport with a request logging
//     middleware based on httpsnoop.
package http
