package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/ValentinKolb/dTodo/lib/db"
	"github.com/ValentinKolb/dTodo/lib/db/engines/leveldb"
	"github.com/ValentinKolb/dTodo/rpc/client"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Test Doubles
// --------------------------------------------------------------------------

// countingDB counts the write calls that reach the database
type countingDB struct {
	db.RecordDB
	writes int
}

func (d *countingDB) Insert(record common.Record) error {
	d.writes++
	return d.RecordDB.Insert(record)
}

func (d *countingDB) UpdateQuantity(name, quantity string) error {
	d.writes++
	return d.RecordDB.UpdateQuantity(name, quantity)
}

func (d *countingDB) UpdateStatus(name string, status common.Status) error {
	d.writes++
	return d.RecordDB.UpdateStatus(name, status)
}

// fakeRemote is an in-memory server that records the commands it receives
type fakeRemote struct {
	owners  map[string]*string
	calls   []common.CommandKind
	failing error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{owners: make(map[string]*string)}
}

func (r *fakeRemote) Store(_ context.Context, owner, list string) error {
	r.calls = append(r.calls, common.CmdStore)
	if existing, ok := r.owners[owner]; ok && existing != nil {
		return common.ParseRemoteError(common.ErrListExists.Error())
	}
	r.owners[owner] = &list
	return nil
}

func (r *fakeRemote) UpdateList(_ context.Context, owner, list string) error {
	r.calls = append(r.calls, common.CmdUpdateList)
	if _, ok := r.owners[owner]; !ok {
		return common.ParseRemoteError(common.ErrOwnerNotFound.Error())
	}
	r.owners[owner] = &list
	return nil
}

func (r *fakeRemote) Get(_ context.Context, owner string) (*string, bool, error) {
	r.calls = append(r.calls, common.CmdGet)
	list, ok := r.owners[owner]
	return list, ok, nil
}

func (r *fakeRemote) CreateOwner(_ context.Context, owner string) error {
	r.calls = append(r.calls, common.CmdCreateOwner)
	if _, ok := r.owners[owner]; ok {
		return common.ParseRemoteError(common.ErrOwnerExists.Error())
	}
	r.owners[owner] = nil
	return nil
}

func (r *fakeRemote) ListCatalog(_ context.Context, catalog common.Catalog) ([]string, error) {
	r.calls = append(r.calls, common.NewListCatalogCommand(catalog).Kind())
	if r.failing != nil {
		return nil, r.failing
	}
	return common.DefaultCatalogs()[catalog], nil
}

func (r *fakeRemote) DeleteOwner(_ context.Context, owner string) error {
	r.calls = append(r.calls, common.CmdDeleteOwner)
	delete(r.owners, owner)
	return nil
}

func (r *fakeRemote) Metrics() *client.Metrics { return client.NewMetrics() }

func (r *fakeRemote) Close() error { return nil }

// count returns how often a command kind was sent
func (r *fakeRemote) count(kind common.CommandKind) int {
	n := 0
	for _, k := range r.calls {
		if k == kind {
			n++
		}
	}
	return n
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func newTestCache(t *testing.T, opts Options) (ICache, *countingDB, *fakeRemote) {
	t.Helper()

	database, err := leveldb.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	counting := &countingDB{RecordDB: database}
	remote := newFakeRemote()
	if opts.Owner == "" {
		opts.Owner = "alice"
	}

	c := New(counting, remote, opts)
	require.NoError(t, c.Load())
	return c, counting, remote
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestAddNormalizesName(t *testing.T) {
	c, database, _ := newTestCache(t, Options{})
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "pineAPPLE", " 2 "))
	require.Equal(t, []common.Record{{Name: "Pineapple", Quantity: "2", Status: common.StatusQueued}}, c.Records())
	require.Equal(t, 1, database.writes)

	stored, err := database.LoadAll()
	require.NoError(t, err)
	require.Equal(t, c.Records(), stored)
}

func TestAddUnknownName(t *testing.T) {
	c, database, _ := newTestCache(t, Options{})

	err := c.Add(context.Background(), "Banana", "1")

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, common.CatalogFruits, validationErr.Catalog)
	require.Empty(t, c.Records())
	require.Zero(t, database.writes)

	stored, err := database.LoadAll()
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestAddSupplierCatalog(t *testing.T) {
	c, _, remote := newTestCache(t, Options{Catalog: common.CatalogSuppliers})
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "jane doe", "1"))
	require.Error(t, c.Add(ctx, "Apple", "1"))
	require.Equal(t, 1, remote.count(common.CmdListCatalogB))
}

func TestAddExisting(t *testing.T) {
	c, database, _ := newTestCache(t, Options{})
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Apple", "1"))
	require.ErrorIs(t, c.Add(ctx, "apple", "2"), common.ErrRecordExists)
	require.Equal(t, 1, database.writes)
	require.Equal(t, "1", c.Records()[0].Quantity)
}

func TestCatalogUnavailable(t *testing.T) {
	c, database, remote := newTestCache(t, Options{})
	remote.failing = &common.TransportError{Op: "dial", Err: errors.New("connection refused")}

	err := c.Add(context.Background(), "Apple", "1")

	var transportErr *common.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Zero(t, database.writes)
	require.Empty(t, c.Records())
}

func TestEdit(t *testing.T) {
	c, database, _ := newTestCache(t, Options{})
	ctx := context.Background()

	require.ErrorIs(t, c.Edit(ctx, "Apple", "2"), common.ErrRecordNotFound)

	require.NoError(t, c.Add(ctx, "Apple", "1"))
	require.NoError(t, c.Edit(ctx, "Apple", "5"))
	require.Equal(t, "5", c.Records()[0].Quantity)
	require.Equal(t, 2, database.writes)

	// same quantity, no write
	require.NoError(t, c.Edit(ctx, "Apple", "5"))
	require.Equal(t, 2, database.writes)

	// completed records can not be edited
	require.NoError(t, c.Done(ctx, "Apple"))
	require.ErrorIs(t, c.Edit(ctx, "Apple", "7"), common.ErrRecordCompleted)
	require.Equal(t, "5", c.Records()[0].Quantity)
}

func TestDoneTwice(t *testing.T) {
	c, database, _ := newTestCache(t, Options{})
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Mango", "1"))
	require.NoError(t, c.Done(ctx, "mango"))
	writes := database.writes

	require.NoError(t, c.Done(ctx, "Mango"))
	require.Equal(t, writes, database.writes)
	require.Equal(t, common.StatusCompleted, c.Records()[0].Status)
}

func TestUndo(t *testing.T) {
	c, database, _ := newTestCache(t, Options{})
	ctx := context.Background()

	require.ErrorIs(t, c.Undo(ctx, "Mango"), common.ErrRecordNotFound)

	require.NoError(t, c.Add(ctx, "Mango", "1"))
	require.NoError(t, c.Undo(ctx, "Mango"))
	require.Equal(t, 1, database.writes)

	require.NoError(t, c.Done(ctx, "Mango"))
	require.NoError(t, c.Undo(ctx, "Mango"))
	require.Equal(t, common.StatusQueued, c.Records()[0].Status)
	require.Equal(t, 3, database.writes)
}

func TestLoadRestoresRecords(t *testing.T) {
	database, err := leveldb.NewMemLevelDB()
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Insert(common.Record{Name: "Orange", Quantity: "2", Status: common.StatusCompleted}))
	require.NoError(t, database.Insert(common.Record{Name: "Apple", Quantity: "1"}))

	c := New(database, newFakeRemote(), Options{Owner: "alice"})
	require.Empty(t, c.Records())
	require.NoError(t, c.Load())

	list := c.List()
	require.Equal(t, []common.Record{{Name: "Apple", Quantity: "1"}}, list.Queued)
	require.Equal(t, []common.Record{{Name: "Orange", Quantity: "2", Status: common.StatusCompleted}}, list.Completed)
}

func TestSyncNewOwner(t *testing.T) {
	c, _, remote := newTestCache(t, Options{})
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Apple", "1"))
	require.NoError(t, c.Sync(ctx))

	require.Equal(t, 1, remote.count(common.CmdUpdateList))
	require.Equal(t, 1, remote.count(common.CmdStore))
	require.Zero(t, remote.count(common.CmdCreateOwner))

	stored, err := common.UnmarshalTodoList(*remote.owners["alice"])
	require.NoError(t, err)
	require.Equal(t, c.List(), stored)

	// the owner exists now, a second sync only updates
	require.NoError(t, c.Sync(ctx))
	require.Equal(t, 2, remote.count(common.CmdUpdateList))
	require.Equal(t, 1, remote.count(common.CmdStore))
}

func TestSyncCreateBeforeStore(t *testing.T) {
	c, _, remote := newTestCache(t, Options{CreateBeforeStore: true})
	ctx := context.Background()

	require.NoError(t, c.Sync(ctx))
	require.Equal(t, []common.CommandKind{common.CmdUpdateList, common.CmdCreateOwner, common.CmdStore}, remote.calls)
	require.Equal(t, `{"queued":[],"completed":[]}`, *remote.owners["alice"])
}

func TestSyncOnWrite(t *testing.T) {
	c, _, remote := newTestCache(t, Options{SyncOnWrite: true})
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Apple", "1"))
	require.NoError(t, c.Done(ctx, "Apple"))
	// no change, no sync
	require.NoError(t, c.Done(ctx, "Apple"))

	require.Equal(t, 1, remote.count(common.CmdStore))
	require.Equal(t, 2, remote.count(common.CmdUpdateList))

	stored, err := common.UnmarshalTodoList(*remote.owners["alice"])
	require.NoError(t, err)
	require.Len(t, stored.Completed, 1)
}
