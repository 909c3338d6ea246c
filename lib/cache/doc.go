// Package cache implements the write-through local cache of the dTodo client.
//
// The cache mirrors the records of a local db.RecordDB in memory and reconciles
// them with the server through a client.ITodoClient. Names are normalized
// ("pineAPPLE" becomes "Pineapple") and must be part of the server catalog.
//
// Sync sends the whole list with UpdateList. If the server does not know the
// owner, the list is sent with Store instead, optionally after CreateOwner.
//
// Usage Example:
//
//	c := cache.New(database, remote, cache.Options{Owner: "alice", Catalog: common.CatalogFruits})
//	if err := c.Load(); err != nil {
//	  return err
//	}
//	_ = c.Add(ctx, "apple", "3")
//	_ = c.Sync(ctx)
package cache
