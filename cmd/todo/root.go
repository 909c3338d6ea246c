package todo

import (
	"fmt"
	"github.com/ValentinKolb/dTodo/cmd/util"
	"github.com/ValentinKolb/dTodo/lib/cache"
	"github.com/ValentinKolb/dTodo/lib/db"
	"github.com/ValentinKolb/dTodo/rpc/client"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

var (
	todoCache cache.ICache
	rpcClient client.ITodoClient
	localDB   db.RecordDB

	// TodoCmd represents the todo client. Without subcommand it starts the interactive shell.
	TodoCmd = &cobra.Command{
		Use:   "todo",
		Short: "Manage your todo list (interactive without subcommand)",
		Long: `Manage your todo list. The list is kept in a local database and synced to the server.

Without subcommand an interactive shell is started that understands:
  ADD <quantity> <name>, EDIT <quantity> <name>, DONE <name>, UNDO <name>, LIST, SYNC, EXIT

The subcommands run one of these commands. add, edit, done and undo sync the list
before they return.`,
		PersistentPreRunE:  setupCache,
		PersistentPostRunE: closeCache,
		RunE:               runShell,
	}
)

func init() {
	util.SetupRPCClientFlags(TodoCmd)

	key := "owner"
	TodoCmd.PersistentFlags().String(key, os.Getenv("USER"), util.WrapString("The owner the list is synced to"))

	key = "db"
	TodoCmd.PersistentFlags().String(key, string(db.ImplSQLite), util.WrapString("The local database engine (sqlite, leveldb)"))

	key = "db-path"
	TodoCmd.PersistentFlags().String(key, "todo.db", util.WrapString("The path of the local database (file for sqlite, directory for leveldb)"))

	key = "catalog"
	TodoCmd.PersistentFlags().String(key, "fruits", util.WrapString("The catalog record names are validated against (fruits, suppliers)"))

	key = "sync-on-write"
	TodoCmd.PersistentFlags().Bool(key, false, util.WrapString("Sync the list to the server after every change"))

	key = "create-before-store"
	TodoCmd.PersistentFlags().Bool(key, false, util.WrapString("Create an unknown owner with CreateOwner before storing the list"))

	TodoCmd.AddCommand(addCmd)
	TodoCmd.AddCommand(editCmd)
	TodoCmd.AddCommand(doneCmd)
	TodoCmd.AddCommand(undoCmd)
	TodoCmd.AddCommand(listCmd)
	TodoCmd.AddCommand(syncCmd)
}

// setupCache connects the client and loads the local database into the cache
func setupCache(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	owner := viper.GetString("owner")
	if owner == "" {
		return fmt.Errorf("no owner given (use --owner or DTODO_OWNER)")
	}

	catalog, err := common.ParseCatalog(viper.GetString("catalog"))
	if err != nil {
		return err
	}

	factory, err := util.GetDBFactory()
	if err != nil {
		return err
	}

	rpcClient, err = util.NewClient()
	if err != nil {
		return err
	}

	localDB, err = factory()
	if err != nil {
		return fmt.Errorf("failed to open local database: %w", err)
	}

	todoCache = cache.New(localDB, rpcClient, cache.Options{
		Owner:             owner,
		Catalog:           catalog,
		SyncOnWrite:       viper.GetBool("sync-on-write"),
		CreateBeforeStore: viper.GetBool("create-before-store"),
	})
	return todoCache.Load()
}

// closeCache closes the local database and prints the request metrics if requested
func closeCache(_ *cobra.Command, _ []string) error {
	if viper.GetBool("stats") && rpcClient != nil {
		rpcClient.Metrics().Write(os.Stderr)
	}
	if localDB != nil {
		return localDB.Close()
	}
	return nil
}

// runShell starts the interactive shell
func runShell(cmd *cobra.Command, _ []string) error {
	shell := NewShell(todoCache, nil, cmd.OutOrStdout())
	return shell.Run(cmd.Context())
}
