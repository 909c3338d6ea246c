// Package sqlstore implements store.IOwnerStore on top of sqlite (mattn/go-sqlite3).
//
// Tables:
//
//	owners    (name TEXT PRIMARY KEY, list TEXT)   list is NULL for owners without a list
//	fruits    (position INTEGER PRIMARY KEY, name TEXT UNIQUE)
//	suppliers (position INTEGER PRIMARY KEY, name TEXT UNIQUE)
//
// The catalog tables are seeded with INSERT OR IGNORE on every start, so entries added
// by hand survive restarts. The database is accessed through a single connection;
// sqlite serializes writers anyway.
package sqlstore
