// Package db provides the local persistent store of the dTodo client: the records of
// the current owner, keyed by name. The local cache writes through to it before it
// updates its in-memory state.
//
// Key Components:
//
//   - RecordDB Interface: LoadAll, Insert, UpdateQuantity and UpdateStatus, the only
//     operations the cache needs. Deleting records is not part of the interface.
//
//   - Implementation Identifiers: "sqlite" (engines/sqlite, a todo_list table) and
//     "leveldb" (engines/leveldb, one key per record).
//
// Every engine is tested with the shared conformance suite in the testing sub package.
package db
