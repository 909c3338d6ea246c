package todo

import (
	"bytes"
	"context"
	"net"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/ValentinKolb/dTodo/lib/cache"
	"github.com/ValentinKolb/dTodo/lib/db/engines/leveldb"
	"github.com/ValentinKolb/dTodo/lib/store/memstore"
	"github.com/ValentinKolb/dTodo/rpc/client"
	"github.com/ValentinKolb/dTodo/rpc/codec"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/server"
	"github.com/ValentinKolb/dTodo/rpc/transport/tcp"
	"github.com/stretchr/testify/require"
)

// newTestShell runs a server on a random port and returns a shell for owner alice
func newTestShell(t *testing.T, catalog common.Catalog) (*Shell, client.ITodoClient, *bytes.Buffer) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	framing := common.DefaultFramingConfig()
	s := server.NewRPCServer(common.ServerConfig{
		Endpoint: listener.Addr().String(),
		Framing:  framing,
	}, tcp.NewTCPServerTransport(), codec.NewBinaryCodec(), memstore.Factory)
	go func() {
		_ = s.ServeListener(listener)
	}()
	t.Cleanup(func() { _ = s.Close() })

	remote, err := client.NewClient(common.ClientConfig{
		Endpoint:      listener.Addr().String(),
		TimeoutSecond: 5,
		Framing:       framing,
	}, tcp.NewTCPClientTransport(), codec.NewBinaryCodec())
	require.NoError(t, err)

	database, err := leveldb.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	c := cache.New(database, remote, cache.Options{Owner: "alice", Catalog: catalog})
	require.NoError(t, c.Load())

	out := &bytes.Buffer{}
	return NewShell(c, nil, out), remote, out
}

func TestShellSession(t *testing.T) {
	shell, remote, out := newTestShell(t, common.CatalogFruits)
	ctx := context.Background()

	exit, err := shell.Execute(ctx, "ADD 3 apple")
	require.NoError(t, err)
	require.False(t, exit)
	require.Contains(t, out.String(), "Apple")
	require.Contains(t, out.String(), "QUEUED")

	_, err = shell.Execute(ctx, "add 1 mango")
	require.NoError(t, err)

	out.Reset()
	_, err = shell.Execute(ctx, "done Apple")
	require.NoError(t, err)
	require.Contains(t, out.String(), "COMPLETED")

	exit, err = shell.Execute(ctx, "EXIT")
	require.NoError(t, err)
	require.True(t, exit)

	// the list reached the server
	stored, found, err := remote.Get(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, stored)

	list, err := common.UnmarshalTodoList(*stored)
	require.NoError(t, err)
	require.Equal(t, []common.Record{{Name: "Mango", Quantity: "1"}}, list.Queued)
	require.Equal(t, []common.Record{{Name: "Apple", Quantity: "3", Status: common.StatusCompleted}}, list.Completed)
}

func TestShellQuotedNames(t *testing.T) {
	shell, _, out := newTestShell(t, common.CatalogSuppliers)
	ctx := context.Background()

	_, err := shell.Execute(ctx, `ADD 2 "john doe"`)
	require.NoError(t, err)
	require.Contains(t, out.String(), "John Doe")

	// unquoted words are joined as well
	_, err = shell.Execute(ctx, "EDIT 5 John Doe")
	require.NoError(t, err)

	_, err = shell.Execute(ctx, "ADD 1 'unclosed")
	require.Error(t, err)
}

func TestShellErrors(t *testing.T) {
	shell, _, out := newTestShell(t, common.CatalogFruits)
	ctx := context.Background()

	var validationErr *common.ValidationError
	_, err := shell.Execute(ctx, "ADD 1 banana")
	require.ErrorAs(t, err, &validationErr)

	_, err = shell.Execute(ctx, "EDIT 1 apple")
	require.ErrorIs(t, err, common.ErrRecordNotFound)

	for _, line := range []string{"FOO", "ADD 1", "DONE"} {
		_, err = shell.Execute(ctx, line)
		require.ErrorIs(t, err, errUsage, line)
	}

	// empty lines are ignored
	out.Reset()
	exit, err := shell.Execute(ctx, "   ")
	require.NoError(t, err)
	require.False(t, exit)
	require.Empty(t, out.String())
}

func TestRender(t *testing.T) {
	out := &bytes.Buffer{}

	Render(out, common.PartitionRecords(nil))
	require.Equal(t, "There are no TODOs\n", out.String())

	out.Reset()
	Render(out, common.PartitionRecords([]common.Record{{Name: "Apple", Quantity: "2", Status: common.StatusCompleted}}))
	require.Contains(t, out.String(), "All TODOs are completed")
	require.Contains(t, out.String(), "Apple")
}

// unreachableCache fails every sync like a client whose server is down
type unreachableCache struct {
	cache.ICache
	syncs int
}

func (c *unreachableCache) Sync(context.Context) error {
	c.syncs++
	return &common.TransportError{Op: "dial", Err: syscall.ECONNREFUSED}
}

// runShellLoop runs the interactive loop on input and fails if it does not return
func runShellLoop(t *testing.T, shell *Shell) error {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- shell.Run(context.Background())
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not return after the end of input")
		return nil
	}
}

func TestShellRunEndOfInput(t *testing.T) {
	shell, remote, out := newTestShell(t, common.CatalogFruits)
	shell.in = strings.NewReader("ADD 2 apple\n")

	require.NoError(t, runShellLoop(t, shell))
	require.Contains(t, out.String(), "Synced the list of alice")

	stored, found, err := remote.Get(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, stored)
	require.Contains(t, *stored, "Apple")
}

func TestShellRunSyncFailure(t *testing.T) {
	shell, _, out := newTestShell(t, common.CatalogFruits)
	failing := &unreachableCache{ICache: shell.cache}
	shell.cache = failing
	shell.in = strings.NewReader("LIST\n")

	err := runShellLoop(t, shell)

	var transportErr *common.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 1, failing.syncs)
	require.Contains(t, out.String(), "Error: transport dial")
}

func TestShellRunOnce(t *testing.T) {
	shell, remote, _ := newTestShell(t, common.CatalogFruits)
	ctx := context.Background()

	// reading does not sync
	require.NoError(t, shell.RunOnce(ctx, "LIST", nil))
	_, found, err := remote.Get(ctx, "alice")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, shell.RunOnce(ctx, "ADD", []string{"4", "mango"}))
	stored, found, err := remote.Get(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, stored)
	require.Contains(t, *stored, "Mango")

	// a failed command does not sync
	failing := &unreachableCache{ICache: shell.cache}
	shell.cache = failing
	require.Error(t, shell.RunOnce(ctx, "DONE", []string{"banana"}))
	require.Zero(t, failing.syncs)
}
