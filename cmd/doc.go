// Package cmd implements the command-line interface of dTodo. It provides a
// hierarchical command structure for running the server and for working with
// todo lists as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Starts and configures the dTodo server
//   - todo: The todo list client with its local cache (interactive or one-shot)
//   - remote: Raw protocol commands (get, store, update, create, delete, catalog) and a
//     performance test
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable DTODO_<FLAG>
// (e.g. DTODO_MAX_MESSAGE_SIZE=1024). See dtodo -help for a list of all commands.
package cmd
