// Package client implements the client request helper of dTodo.
// It sends typed commands to the server and decodes the typed responses.
//
// The package focuses on:
//   - One fresh connection per command, no pooling, keep-alive or retry
//   - Decoding each response by the shape expected for the command
//   - Mapping error texts of the server back to the sentinel errors of the common package
//
// Key Components:
//
//   - ITodoClient: The typed protocol client (Store, UpdateList, Get, CreateOwner,
//     ListCatalog, DeleteOwner).
//
//   - NewClient: Factory function that creates a client for a transport and codec.
//
//   - Metrics: Per command request timers, printed by the --stats flag of the CLI.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoint:      "localhost:8080",
//	  TimeoutSecond: 5,
//	  Framing:       common.DefaultFramingConfig(),
//	}
//
//	c, _ := client.NewClient(config, tcp.NewTCPClientTransport(), codec.NewBinaryCodec())
//	defer c.Close()
//
//	if err := c.UpdateList(ctx, "alice", list); errors.Is(err, common.ErrOwnerNotFound) {
//	  err = c.Store(ctx, "alice", list)
//	}
//
// Thread Safety:
//
//	A client can be used from multiple goroutines, every call uses its own connection.
package client
