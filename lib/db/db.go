package db

import (
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"sort"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplSQLite  Implementation = "sqlite"
	ImplLevelDB Implementation = "leveldb"
)

// ParseImplementation validates the name of a database engine
func ParseImplementation(s string) (Implementation, error) {
	switch Implementation(s) {
	case ImplSQLite:
		return ImplSQLite, nil
	case ImplLevelDB:
		return ImplLevelDB, nil
	default:
		return "", fmt.Errorf("invalid db engine %s (expected sqlite or leveldb)", s)
	}
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// RecordDB is the local persistent store of a client: the records of one owner,
// keyed by record name.
//
// Write operations report common.ErrRecordExists and common.ErrRecordNotFound,
// all other errors are failures of the engine.
type RecordDB interface {
	// LoadAll returns all records, sorted by name
	LoadAll() ([]common.Record, error)
	// Insert adds a new record. Fails with common.ErrRecordExists if the name is taken.
	Insert(record common.Record) error
	// UpdateQuantity sets the quantity of an existing record
	UpdateQuantity(name, quantity string) error
	// UpdateStatus sets the status of an existing record
	UpdateStatus(name string, status common.Status) error
	// Close releases the engine
	Close() error
}

// Factory is a function type that opens a RecordDB
type Factory func() (RecordDB, error)

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// SortRecords sorts records by name in place and returns them
func SortRecords(records []common.Record) []common.Record {
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}
