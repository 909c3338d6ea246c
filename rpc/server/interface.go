package server

import (
	"context"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters (the dispatcher).
// It executes a decoded command against a backend and produces the response.
type IRPCServerAdapter interface {
	// Handle executes the command and returns the response.
	// Failures are never returned alone: resp then carries the error text that is
	// sent to the client, and err the typed error for logging and metrics.
	Handle(ctx context.Context, cmd common.Command) (resp common.Response, err error)
}
