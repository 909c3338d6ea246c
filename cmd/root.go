package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dTodo/cmd/remote"
	"github.com/ValentinKolb/dTodo/cmd/serve"
	"github.com/ValentinKolb/dTodo/cmd/todo"
	"github.com/ValentinKolb/dTodo/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dtodo",
		Short: "client/server todo list synchronisation",
		Long: fmt.Sprintf(`dTodo (v%s)

A todo list client with a local write-through cache and a server that
stores the lists of all owners, connected by a small command protocol.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dTodo",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dTodo v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(todo.TodoCmd)
	RootCmd.AddCommand(remote.RemoteCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "codec"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("codec to use (binary, json, gob)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix, http)"))
	key = "framing"
	RootCmd.PersistentFlags().String(key, "legacy", util.WrapString("framing of stream transports (legacy, prefixed)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
