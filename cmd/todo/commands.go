package todo

import (
	"github.com/spf13/cobra"
)

var (
	addCmd = &cobra.Command{
		Use:   "add [quantity] [name]",
		Short: "Adds a record to the list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, "ADD", args...)
		},
	}
	editCmd = &cobra.Command{
		Use:   "edit [quantity] [name]",
		Short: "Changes the quantity of a queued record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, "EDIT", args...)
		},
	}
	doneCmd = &cobra.Command{
		Use:   "done [name]",
		Short: "Marks a record completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, "DONE", args...)
		},
	}
	undoCmd = &cobra.Command{
		Use:   "undo [name]",
		Short: "Marks a completed record queued again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, "UNDO", args...)
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Prints the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, "LIST")
		},
	}
	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Pushes the list to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, "SYNC")
		},
	}
)

// runOnce executes a single shell command
func runOnce(cmd *cobra.Command, command string, args ...string) error {
	shell := NewShell(todoCache, nil, cmd.OutOrStdout())
	return shell.RunOnce(cmd.Context(), command, args)
}
