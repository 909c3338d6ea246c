package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/dTodo/lib/store"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/stretchr/testify/require"
)

// RunOwnerStoreTests runs the conformance test suite for an IOwnerStore implementation.
// factory must return a new, empty store for every call.
func RunOwnerStoreTests(t *testing.T, name string, factory store.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("InsertFind", func(t *testing.T) {
			testInsertFind(t, newStore(t, factory, nil))
		})

		t.Run("OwnerWithoutList", func(t *testing.T) {
			testOwnerWithoutList(t, newStore(t, factory, nil))
		})

		t.Run("Update", func(t *testing.T) {
			testUpdate(t, newStore(t, factory, nil))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, newStore(t, factory, nil))
		})

		t.Run("DefaultCatalogs", func(t *testing.T) {
			testDefaultCatalogs(t, newStore(t, factory, nil))
		})

		t.Run("CustomCatalogs", func(t *testing.T) {
			testCustomCatalogs(t, factory)
		})

		t.Run("ConcurrentInsert", func(t *testing.T) {
			testConcurrentInsert(t, newStore(t, factory, nil))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func newStore(t *testing.T, factory store.Factory, catalogs map[common.Catalog][]string) store.IOwnerStore {
	t.Helper()
	s, err := factory(catalogs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertFind(t *testing.T, s store.IOwnerStore) {
	ctx := context.Background()

	list, found, err := s.FindOwner(ctx, "alice")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, list)

	require.NoError(t, s.InsertOwner(ctx, "alice", common.StringPtr(`{"queued":[],"completed":[]}`)))

	list, found, err = s.FindOwner(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, list)
	require.Equal(t, `{"queued":[],"completed":[]}`, *list)

	// payloads are stored byte for byte
	odd := "  äöü ✓ \n"
	require.NoError(t, s.InsertOwner(ctx, "bob", &odd))
	list, _, err = s.FindOwner(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, odd, *list)

	// inserting again fails and keeps the first list
	err = s.InsertOwner(ctx, "alice", common.StringPtr("other"))
	require.ErrorIs(t, err, common.ErrOwnerExists)
	list, _, err = s.FindOwner(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, `{"queued":[],"completed":[]}`, *list)
}

func testOwnerWithoutList(t *testing.T, s store.IOwnerStore) {
	ctx := context.Background()

	require.NoError(t, s.InsertOwner(ctx, "carol", nil))

	list, found, err := s.FindOwner(ctx, "carol")
	require.NoError(t, err)
	require.True(t, found)
	require.Nil(t, list)

	require.ErrorIs(t, s.InsertOwner(ctx, "carol", nil), common.ErrOwnerExists)

	// an empty list is a list
	require.NoError(t, s.UpdateOwner(ctx, "carol", ""))
	list, found, err = s.FindOwner(ctx, "carol")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, list)
	require.Equal(t, "", *list)
}

func testUpdate(t *testing.T, s store.IOwnerStore) {
	ctx := context.Background()

	require.ErrorIs(t, s.UpdateOwner(ctx, "dave", "list"), common.ErrOwnerNotFound)

	// a failed update must not create the owner
	_, found, err := s.FindOwner(ctx, "dave")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.InsertOwner(ctx, "dave", common.StringPtr("v1")))
	require.NoError(t, s.UpdateOwner(ctx, "dave", "v2"))
	require.NoError(t, s.UpdateOwner(ctx, "dave", "v2"))

	list, _, err := s.FindOwner(ctx, "dave")
	require.NoError(t, err)
	require.Equal(t, "v2", *list)
}

func testDelete(t *testing.T, s store.IOwnerStore) {
	ctx := context.Background()

	require.ErrorIs(t, s.DeleteOwner(ctx, "erin"), common.ErrOwnerNotFound)

	require.NoError(t, s.InsertOwner(ctx, "erin", common.StringPtr("list")))
	require.NoError(t, s.DeleteOwner(ctx, "erin"))

	_, found, err := s.FindOwner(ctx, "erin")
	require.NoError(t, err)
	require.False(t, found)

	require.ErrorIs(t, s.DeleteOwner(ctx, "erin"), common.ErrOwnerNotFound)

	// the name can be reused
	require.NoError(t, s.InsertOwner(ctx, "erin", nil))
}

func testDefaultCatalogs(t *testing.T, s store.IOwnerStore) {
	ctx := context.Background()

	for catalog, want := range common.DefaultCatalogs() {
		names, err := s.ListCatalog(ctx, catalog)
		require.NoError(t, err)
		require.Equal(t, want, names)
	}

	// the result is a copy
	names, err := s.ListCatalog(ctx, common.CatalogFruits)
	require.NoError(t, err)
	names[0] = "Changed"
	names, err = s.ListCatalog(ctx, common.CatalogFruits)
	require.NoError(t, err)
	require.Equal(t, "Apple", names[0])
}

func testCustomCatalogs(t *testing.T, factory store.Factory) {
	ctx := context.Background()

	s := newStore(t, factory, map[common.Catalog][]string{
		common.CatalogFruits: {"Kiwi", "Banana"},
	})

	names, err := s.ListCatalog(ctx, common.CatalogFruits)
	require.NoError(t, err)
	require.Equal(t, []string{"Kiwi", "Banana"}, names)

	// missing catalogs fall back to the defaults
	names, err = s.ListCatalog(ctx, common.CatalogSuppliers)
	require.NoError(t, err)
	require.Equal(t, common.DefaultCatalogs()[common.CatalogSuppliers], names)
}

func testConcurrentInsert(t *testing.T, s store.IOwnerStore) {
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)

	// all workers race for the same owner, exactly one wins
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- s.InsertOwner(ctx, "shared", common.StringPtr(fmt.Sprintf("list-%d", i)))
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, common.ErrOwnerExists)
	}
	require.Equal(t, 1, wins)
}
