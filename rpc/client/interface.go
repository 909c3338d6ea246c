package client

import (
	"context"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// ITodoClient is the typed client side of the command protocol.
// Every method sends exactly one command on a fresh connection.
//
// Failures are reported as:
//   - *common.TransportError if the server could not be reached or the connection broke
//   - *common.RemoteError if the server answered with an error text; known texts unwrap to
//     the sentinel errors of the common package (e.g. common.ErrOwnerNotFound)
//   - *common.DecodeError if the response could not be decoded
type ITodoClient interface {
	// Store creates the owner with the given serialized list.
	// Fails with common.ErrListExists if the owner already has a list.
	Store(ctx context.Context, owner, list string) error

	// UpdateList replaces the list of an existing owner.
	// Fails with common.ErrOwnerNotFound if the owner does not exist.
	UpdateList(ctx context.Context, owner, list string) error

	// Get returns the list of the owner.
	// found is false for an unknown owner, list is nil for an owner without list.
	Get(ctx context.Context, owner string) (list *string, found bool, err error)

	// CreateOwner creates an owner without a list.
	// Fails with common.ErrOwnerExists if the owner already exists.
	CreateOwner(ctx context.Context, owner string) error

	// ListCatalog returns the names of the given catalog in server order
	ListCatalog(ctx context.Context, catalog common.Catalog) ([]string, error)

	// DeleteOwner removes the owner and its list.
	// Fails with common.ErrOwnerNotFound if the owner does not exist.
	DeleteOwner(ctx context.Context, owner string) error

	// Metrics returns the request metrics of this client
	Metrics() *Metrics

	// Close releases the transport
	Close() error
}
