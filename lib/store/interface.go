package store

import (
	"context"
	"github.com/ValentinKolb/dTodo/rpc/common"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IOwnerStore is the remote store of the server. It keeps at most one serialized
// list per owner and the read-only reference catalogs.
//
// Implementations must be safe for concurrent use: a single instance is shared by
// all connections of the server. Errors are reported with the sentinels of the
// common package (common.ErrOwnerNotFound, common.ErrOwnerExists), everything
// else is an internal failure of the backend.
type IOwnerStore interface {
	// FindOwner returns the list of an owner. found is false if the owner is unknown.
	// An owner created without a list is found with a nil list.
	FindOwner(ctx context.Context, owner string) (list *string, found bool, err error)
	// InsertOwner creates an owner with the given list (nil for no list).
	// Fails with common.ErrOwnerExists if the owner already exists.
	InsertOwner(ctx context.Context, owner string, list *string) error
	// UpdateOwner overwrites the list of an existing owner.
	// Fails with common.ErrOwnerNotFound if the owner is unknown.
	UpdateOwner(ctx context.Context, owner string, list string) error
	// DeleteOwner removes an owner and its list.
	// Fails with common.ErrOwnerNotFound if the owner is unknown.
	DeleteOwner(ctx context.Context, owner string) error
	// ListCatalog returns the names of a catalog in their seeded order
	ListCatalog(ctx context.Context, catalog common.Catalog) ([]string, error)
	// Close releases the resources of the store
	Close() error
}

// Factory is a function type that creates a new store seeded with the given catalogs.
// This is used to abstract the creation of the store from the server.
type Factory func(catalogs map[common.Catalog][]string) (IOwnerStore, error)

// CopyCatalogs returns a deep copy of catalogs, falling back to the default catalogs
// for missing entries
func CopyCatalogs(catalogs map[common.Catalog][]string) map[common.Catalog][]string {
	result := common.DefaultCatalogs()
	for catalog, names := range catalogs {
		if names == nil {
			continue
		}
		result[catalog] = append([]string{}, names...)
	}
	return result
}
