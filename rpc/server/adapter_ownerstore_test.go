package server

import (
	"context"
	"testing"

	"github.com/ValentinKolb/dTodo/lib/store/memstore"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/stretchr/testify/require"
)

func newTestAdapter() IRPCServerAdapter {
	return NewOwnerStoreAdapter(memstore.NewMemoryStore(nil))
}

// handle runs a command and returns the response
func handle(t *testing.T, adapter IRPCServerAdapter, cmd common.Command) (common.Response, error) {
	t.Helper()
	return adapter.Handle(context.Background(), cmd)
}

func TestStoreThenGet(t *testing.T) {
	adapter := newTestAdapter()

	resp, err := handle(t, adapter, common.NewStoreCommand("alice", `{"queued":[],"completed":[]}`))
	require.NoError(t, err)
	require.Equal(t, common.NewTextResponse(common.RespInserted), resp)

	// repeated reads return the stored payload unchanged
	for i := 0; i < 2; i++ {
		resp, err = handle(t, adapter, common.NewGetCommand("alice"))
		require.NoError(t, err)
		require.Equal(t, common.RespOptional, resp.Kind)
		require.NotNil(t, resp.Optional)
		require.Equal(t, `{"queued":[],"completed":[]}`, *resp.Optional)
	}
}

func TestGetUnknownOwner(t *testing.T) {
	adapter := newTestAdapter()

	resp, err := handle(t, adapter, common.NewGetCommand("nobody"))
	require.NoError(t, err)
	require.Equal(t, common.RespOptional, resp.Kind)
	require.NotNil(t, resp.Optional)
	require.Equal(t, common.RespOwnerNotFound, *resp.Optional)
}

func TestStoreExistingList(t *testing.T) {
	adapter := newTestAdapter()

	_, err := handle(t, adapter, common.NewStoreCommand("alice", "v1"))
	require.NoError(t, err)

	resp, err := handle(t, adapter, common.NewStoreCommand("alice", "v2"))
	require.ErrorIs(t, err, common.ErrListExists)
	require.Equal(t, common.NewTextResponse("owner already has a list"), resp)

	resp, err = handle(t, adapter, common.NewGetCommand("alice"))
	require.NoError(t, err)
	require.Equal(t, "v1", *resp.Optional)
}

func TestCreateOwnerThenStore(t *testing.T) {
	adapter := newTestAdapter()

	resp, err := handle(t, adapter, common.NewCreateOwnerCommand("bob"))
	require.NoError(t, err)
	require.Equal(t, common.NewTextResponse("CREATED_USER `bob`"), resp)

	// an owner without list answers None
	resp, err = handle(t, adapter, common.NewGetCommand("bob"))
	require.NoError(t, err)
	require.Equal(t, common.RespOptional, resp.Kind)
	require.Nil(t, resp.Optional)

	_, err = handle(t, adapter, common.NewCreateOwnerCommand("bob"))
	require.ErrorIs(t, err, common.ErrOwnerExists)

	// Store fills the list of the created owner
	_, err = handle(t, adapter, common.NewStoreCommand("bob", "list"))
	require.NoError(t, err)

	resp, err = handle(t, adapter, common.NewGetCommand("bob"))
	require.NoError(t, err)
	require.Equal(t, "list", *resp.Optional)
}

func TestUpdateList(t *testing.T) {
	adapter := newTestAdapter()

	resp, err := handle(t, adapter, common.NewUpdateListCommand("carol", "v1"))
	require.ErrorIs(t, err, common.ErrOwnerNotFound)
	require.Equal(t, common.NewTextResponse("owner not found"), resp)

	_, err = handle(t, adapter, common.NewStoreCommand("carol", "v1"))
	require.NoError(t, err)

	resp, err = handle(t, adapter, common.NewUpdateListCommand("carol", "v2"))
	require.NoError(t, err)
	require.Equal(t, common.NewTextResponse(common.RespUpdated), resp)

	resp, err = handle(t, adapter, common.NewGetCommand("carol"))
	require.NoError(t, err)
	require.Equal(t, "v2", *resp.Optional)
}

func TestDeleteOwner(t *testing.T) {
	adapter := newTestAdapter()

	_, err := handle(t, adapter, common.NewDeleteOwnerCommand("dave"))
	require.ErrorIs(t, err, common.ErrOwnerNotFound)

	_, err = handle(t, adapter, common.NewStoreCommand("dave", "list"))
	require.NoError(t, err)

	resp, err := handle(t, adapter, common.NewDeleteOwnerCommand("dave"))
	require.NoError(t, err)
	require.Equal(t, common.NewTextResponse(common.RespDeleted), resp)

	resp, err = handle(t, adapter, common.NewGetCommand("dave"))
	require.NoError(t, err)
	require.Equal(t, common.RespOwnerNotFound, *resp.Optional)
}

func TestListCatalogs(t *testing.T) {
	adapter := newTestAdapter()

	resp, err := handle(t, adapter, common.NewListCatalogCommand(common.CatalogFruits))
	require.NoError(t, err)
	require.Equal(t, common.NewStringsResponse([]string{"Apple", "Orange", "Mango", "Pineapple"}), resp)

	resp, err = handle(t, adapter, common.NewListCatalogCommand(common.CatalogSuppliers))
	require.NoError(t, err)
	require.Equal(t, common.NewStringsResponse([]string{"John Doe", "Jane Doe", "Doe Senior", "Doe Junior"}), resp)
}

func TestNilCommand(t *testing.T) {
	adapter := newTestAdapter()

	resp, err := handle(t, adapter, nil)
	require.ErrorIs(t, err, common.ErrInvalidCommand)
	require.Equal(t, common.NewTextResponse("invalid command"), resp)
}
