package testing

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dTodo/lib/db"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// RunRecordDBTests runs a comprehensive test suite for a RecordDB implementation.
// factory must return a new, empty database for every call.
func RunRecordDBTests(t *testing.T, name string, factory db.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("InsertLoad", func(t *testing.T) {
			testInsertLoad(t, open(t, factory))
		})

		t.Run("InsertDuplicate", func(t *testing.T) {
			testInsertDuplicate(t, open(t, factory))
		})

		t.Run("UpdateQuantity", func(t *testing.T) {
			testUpdateQuantity(t, open(t, factory))
		})

		t.Run("UpdateStatus", func(t *testing.T) {
			testUpdateStatus(t, open(t, factory))
		})

		t.Run("UpdateMissing", func(t *testing.T) {
			testUpdateMissing(t, open(t, factory))
		})

		t.Run("ManyRecords", func(t *testing.T) {
			testManyRecords(t, open(t, factory))
		})
	})
}

// RunRecordDBBenchmarks measures the write path used by the cache
func RunRecordDBBenchmarks(b *testing.B, name string, factory db.Factory) {
	b.Run(name+"/Insert", func(b *testing.B) {
		database, err := factory()
		if err != nil {
			b.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := database.Insert(common.Record{Name: fmt.Sprintf("item-%d", i), Quantity: "1"}); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run(name+"/UpdateStatus", func(b *testing.B) {
		database, err := factory()
		if err != nil {
			b.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()

		if err := database.Insert(common.Record{Name: "item", Quantity: "1"}); err != nil {
			b.Fatal(err)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := database.UpdateStatus("item", common.Status(i%2)); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func open(t *testing.T, factory db.Factory) db.RecordDB {
	t.Helper()
	database, err := factory()
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func mustLoad(t *testing.T, database db.RecordDB) []common.Record {
	t.Helper()
	records, err := database.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	return records
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertLoad(t *testing.T, database db.RecordDB) {
	if records := mustLoad(t, database); len(records) != 0 {
		t.Errorf("Expected empty database, got %v", records)
	}

	mango := common.Record{Name: "Mango", Quantity: "3", Status: common.StatusQueued}
	apple := common.Record{Name: "Apple", Quantity: "two kilo", Status: common.StatusCompleted}

	for _, r := range []common.Record{mango, apple} {
		if err := database.Insert(r); err != nil {
			t.Fatalf("Insert %s failed: %v", r.Name, err)
		}
	}

	// sorted by name
	want := []common.Record{apple, mango}
	if got := mustLoad(t, database); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func testInsertDuplicate(t *testing.T, database db.RecordDB) {
	first := common.Record{Name: "Apple", Quantity: "1"}
	if err := database.Insert(first); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := database.Insert(common.Record{Name: "Apple", Quantity: "99", Status: common.StatusCompleted})
	if !errors.Is(err, common.ErrRecordExists) {
		t.Errorf("Expected ErrRecordExists, got %v", err)
	}

	// the first record is untouched
	if got := mustLoad(t, database); !reflect.DeepEqual(got, []common.Record{first}) {
		t.Errorf("Expected %v, got %v", first, got)
	}
}

func testUpdateQuantity(t *testing.T, database db.RecordDB) {
	if err := database.Insert(common.Record{Name: "Orange", Quantity: "1", Status: common.StatusCompleted}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := database.UpdateQuantity("Orange", "5"); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}

	want := []common.Record{{Name: "Orange", Quantity: "5", Status: common.StatusCompleted}}
	if got := mustLoad(t, database); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func testUpdateStatus(t *testing.T, database db.RecordDB) {
	if err := database.Insert(common.Record{Name: "Orange", Quantity: "1"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	for _, status := range []common.Status{common.StatusCompleted, common.StatusCompleted, common.StatusQueued} {
		if err := database.UpdateStatus("Orange", status); err != nil {
			t.Fatalf("UpdateStatus(%s) failed: %v", status, err)
		}
		got := mustLoad(t, database)
		if len(got) != 1 || got[0].Status != status || got[0].Quantity != "1" {
			t.Errorf("Expected status %s, got %v", status, got)
		}
	}
}

func testUpdateMissing(t *testing.T, database db.RecordDB) {
	if err := database.UpdateQuantity("Ghost", "1"); !errors.Is(err, common.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
	if err := database.UpdateStatus("Ghost", common.StatusCompleted); !errors.Is(err, common.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}

	// updates never create records
	if records := mustLoad(t, database); len(records) != 0 {
		t.Errorf("Expected empty database, got %v", records)
	}
}

func testManyRecords(t *testing.T, database db.RecordDB) {
	const n = 200
	for i := 0; i < n; i++ {
		r := common.Record{Name: fmt.Sprintf("item-%03d", i), Quantity: fmt.Sprint(i), Status: common.Status(i % 2)}
		if err := database.Insert(r); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	records := mustLoad(t, database)
	if len(records) != n {
		t.Fatalf("Expected %d records, got %d", n, len(records))
	}
	for i, r := range records {
		if r.Name != fmt.Sprintf("item-%03d", i) || r.Status != common.Status(i%2) {
			t.Errorf("Unexpected record at %d: %v", i, r)
		}
	}
}
