// Package sqlite implements db.RecordDB with a single sqlite table
// (todo_list: todo_name, quantity, status), the schema of the legacy client cache.
package sqlite
