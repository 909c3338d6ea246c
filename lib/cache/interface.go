package cache

import (
	"context"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// ICache is the write-through local cache of one owner's todo list.
//
// Every mutation validates the record name against the catalog of the server,
// writes the local database and only then updates the in-memory map. A mutation
// that fails leaves both unchanged.
type ICache interface {
	// Load replaces the in-memory records with the content of the local database
	Load() error

	// Add inserts a new queued record.
	// Fails with common.ErrRecordExists if a record with the name exists.
	Add(ctx context.Context, name, quantity string) error

	// Edit sets the quantity of a queued record.
	// Fails with common.ErrRecordCompleted for completed records.
	Edit(ctx context.Context, name, quantity string) error

	// Done marks a record completed. Marking a completed record is a no-op.
	Done(ctx context.Context, name string) error

	// Undo marks a record queued again. Undoing a queued record is a no-op.
	Undo(ctx context.Context, name string) error

	// Records returns a copy of all records, sorted by name
	Records() []common.Record

	// List returns the records partitioned by status
	List() common.TodoList

	// Sync pushes the list to the server, creating the owner if it is unknown
	Sync(ctx context.Context) error

	// Owner returns the owner the cache syncs to
	Owner() string
}
