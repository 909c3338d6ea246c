// Package common provides the core data structures shared by the client and the
// server of dTodo: the command protocol, the todo list model, the error taxonomy,
// configuration structures and the logger setup.
//
// The package focuses on:
//   - The closed set of commands a client can send and how they are routed
//   - The record / todo list model that is synchronised between client and server
//   - Typed errors and their flattening to (and from) wire text
//   - Configuration structures for client and server components
//
// Key Components:
//
//   - Command: Interface implemented by the seven command variants (Store, UpdateList,
//     Get, CreateOwner, ListCatalogA, ListCatalogB, DeleteOwner). Every variant carries a
//     fixed payload and routes itself to exactly one CommandHandler method through Accept,
//     so a command can never reach the handler of another variant.
//
//   - CommandKind: The discriminant of a command. Its numeric values are the variant
//     indices written by the binary codec.
//
//   - Response: The result of a command, either a plain string, an optional string or a
//     list of strings. Domain errors are flattened into plain string responses with
//     ErrorText and recovered on the client with ParseRemoteError.
//
//   - Record / TodoList: A named item with a quantity and a done/not-done status, and the
//     queued/completed partition of an owner's records that is sent as list payload.
//
//   - ServerConfig / ClientConfig / FramingConfig: Configuration of the components.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's logger
//     registry, so every package can obtain a named logger with logger.GetLogger.
package common
