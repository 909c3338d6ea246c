package leveldb

import (
	"testing"

	"github.com/ValentinKolb/dTodo/rpc/common"
	dbtesting "github.com/ValentinKolb/dTodo/lib/db/testing"
)

func TestLevelDB(t *testing.T) {
	dbtesting.RunRecordDBTests(t, "LevelDB", NewMemLevelDB)
}

func TestLevelDBReopen(t *testing.T) {
	path := t.TempDir()

	database, err := NewLevelDB(path)
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	if err := database.Insert(common.Record{Name: "Mango", Quantity: "2", Status: common.StatusCompleted}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	database.Close()

	database, err = NewLevelDB(path)
	if err != nil {
		t.Fatalf("Failed to reopen: %v", err)
	}
	defer database.Close()

	records, err := database.LoadAll()
	if err != nil || len(records) != 1 || records[0].Status != common.StatusCompleted {
		t.Errorf("Expected persisted record, got %v (%v)", records, err)
	}
}

func TestLevelDBInvalidStatus(t *testing.T) {
	database, err := NewMemLevelDB()
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	defer database.Close()

	raw := database.(*LeveldbDB)
	if err := raw.Put(recordKey("Apple"), []byte(`{"todo_name":"Apple","quantity":"1","status":7}`), nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if records, err := database.LoadAll(); err == nil {
		t.Errorf("Expected an error for an invalid status, got %v", records)
	}
}

func BenchmarkLevelDB(b *testing.B) {
	dbtesting.RunRecordDBBenchmarks(b, "LevelDB", NewMemLevelDB)
}
