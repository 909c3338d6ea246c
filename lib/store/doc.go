// Package store provides the remote owner store of the dTodo server: one serialized
// todo list per owner plus the read-only reference catalogs (fruits and suppliers).
//
// The package focuses on:
//   - A unified interface (IOwnerStore) shared by all backends
//   - Typed errors (common.ErrOwnerNotFound, common.ErrOwnerExists) independent of the backend
//   - Safe concurrent use by all connections of the server
//
// Implementations:
//
//	- Memory Store (memstore): a lock-free in-memory map based on xsync.MapOf.
//	  Data is lost on restart. Available in "github.com/ValentinKolb/dTodo/lib/store/memstore".
//
//	- SQL Store (sqlstore): a durable sqlite database (owners, fruits and suppliers
//	  tables). Available in "github.com/ValentinKolb/dTodo/lib/store/sqlstore".
//
// Both are tested with the shared conformance suite in the testing sub package.
package store
