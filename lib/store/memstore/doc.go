// Package memstore implements store.IOwnerStore in memory.
//
// Owners are kept in an xsync.MapOf, so reads never block and writes only contend
// on the same owner. Conditional writes (insert if absent, update if present) are
// atomic per owner. The catalogs are immutable after construction.
package memstore
