package memstore

import (
	"testing"

	storetesting "github.com/ValentinKolb/dTodo/lib/store/testing"
)

func TestMemoryStore(t *testing.T) {
	storetesting.RunOwnerStoreTests(t, "MemoryStore", Factory)
}
