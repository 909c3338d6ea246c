// Package codec provides the serialization of commands and responses for the
// dTodo command protocol. It defines a common interface and multiple implementations
// for encoding and decoding the messages exchanged between client and server.
//
// The package focuses on:
//   - Providing a consistent interface for different encodings
//   - A self-describing encoding: the command variant is always recoverable
//   - Deterministic output: encoding the same command twice yields the same bytes
//   - Safe decoding: garbled or truncated input yields a *common.DecodeError, never a panic
//
// Key Components:
//
//   - ICodec: Core interface that all codec implementations must satisfy. Besides
//     commands it covers the three response shapes of the protocol (plain string,
//     optional string, list of strings).
//
//   - binaryCodecImpl: The layout spoken by the legacy clients (bincode v1 with fixed
//     width little endian integers). Commands start with a u32 variant index, strings are
//     prefixed with their u64 length. Trailing bytes are rejected.
//
//   - jsonCodecImpl: Human-readable encoding, useful for debugging with netcat or for
//     the HTTP transport. Commands are sent as {"kind": ..., "owner": ..., "list": ...}.
//
//   - gobCodecImpl: Implementation using Go's built-in gob encoding. Larger messages than the
//     binary codec and only useful between Go peers.
//
// Response ambiguity:
//
//	The protocol does not tag responses. A failing command is answered with a plain
//	string, so clients decode the expected shape first and fall back to DecodeString
//	to recover the error text. With the json codec an error string is also a valid
//	optional string; clients must therefore validate the payload of a Get response.
//
// Thread Safety:
//
//	All codec implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	c := codec.NewBinaryCodec()
//	data, err := c.EncodeCommand(common.NewGetCommand("alice"))
//	// ... send data ...
//	cmd, err := c.DecodeCommand(data)
package codec
