package remote

import (
	"github.com/ValentinKolb/dTodo/cmd/util"
	"github.com/ValentinKolb/dTodo/rpc/client"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

var (
	rpcClient client.ITodoClient

	// RemoteCommands represents the command group of the raw protocol commands
	RemoteCommands = &cobra.Command{
		Use:                "remote",
		Short:              "Send single protocol commands to the server",
		PersistentPreRunE:  setupRemoteClient,
		PersistentPostRunE: printStats,
	}
)

func init() {
	// Add common RPC flags to the remote command
	util.SetupRPCClientFlags(RemoteCommands)

	// Add subcommands
	RemoteCommands.AddCommand(storeCmd)
	RemoteCommands.AddCommand(updateCmd)
	RemoteCommands.AddCommand(getCmd)
	RemoteCommands.AddCommand(createCmd)
	RemoteCommands.AddCommand(catalogCmd)
	RemoteCommands.AddCommand(deleteCmd)
	RemoteCommands.AddCommand(perfTestCmd)
}

// setupRemoteClient initializes the RPC client
func setupRemoteClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	var err error
	rpcClient, err = util.NewClient()
	return err
}

// printStats prints the request metrics if requested
func printStats(_ *cobra.Command, _ []string) error {
	if viper.GetBool("stats") && rpcClient != nil {
		rpcClient.Metrics().Write(os.Stderr)
	}
	return nil
}
