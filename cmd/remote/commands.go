package remote

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/spf13/cobra"
	"io"
	"os"
	"strings"
)

var (
	storeCmd = &cobra.Command{
		Use:   "store [owner] [list]",
		Short: "Creates an owner with a list (reads the list from stdin if it is -)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := readList(args[1])
			if err != nil {
				return err
			}
			if err := rpcClient.Store(context.Background(), args[0], list); err != nil {
				return err
			}
			fmt.Println(common.RespInserted)
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [owner] [list]",
		Short: "Replaces the list of an owner (reads the list from stdin if it is -)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := readList(args[1])
			if err != nil {
				return err
			}
			if err := rpcClient.UpdateList(context.Background(), args[0], list); err != nil {
				return err
			}
			fmt.Println(common.RespUpdated)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [owner]",
		Short: "Reads the list of an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, found, err := rpcClient.Get(context.Background(), args[0])
			switch {
			case err != nil:
				return err
			case !found:
				fmt.Println(common.RespOwnerNotFound)
			case list == nil:
				fmt.Printf("owner=%s, list=none\n", args[0])
			default:
				fmt.Println(*list)
			}
			return nil
		},
	}
	createCmd = &cobra.Command{
		Use:   "create [owner]",
		Short: "Creates an owner without a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcClient.CreateOwner(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println(common.CreatedOwnerText(args[0]))
			return nil
		},
	}
	catalogCmd = &cobra.Command{
		Use:   "catalog [fruits|suppliers]",
		Short: "Lists the names of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := common.ParseCatalog(args[0])
			if err != nil {
				return err
			}
			names, err := rpcClient.ListCatalog(context.Background(), catalog)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [owner]",
		Short: "Deletes an owner and its list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcClient.DeleteOwner(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println(common.RespDeleted)
			return nil
		},
	}
)

// readList returns the argument, or stdin if the argument is -
func readList(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read list from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
