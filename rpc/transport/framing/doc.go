// Package framing delimits request and response messages on the byte streams of the
// tcp and unix transports.
//
// Two modes are provided:
//
//   - legacy: no length on the wire. The server accumulates fixed size chunks and treats
//     the first short read as the end of the message. Compatible with the legacy
//     clients, but a message whose length is an exact multiple of the chunk size stalls
//     the connection. The client reads the response with one bounded read.
//
//   - prefixed: every message carries a 4 byte big endian length header. Recommended for
//     everything that does not need to talk to legacy peers.
//
// Both modes enforce a maximum message size and report violations as
// common.ErrCapacityExceeded without returning any of the payload.
package framing
