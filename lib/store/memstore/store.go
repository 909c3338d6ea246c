package memstore

import (
	"context"
	"github.com/ValentinKolb/dTodo/lib/store"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// entry is the value stored per owner
type entry struct {
	list    string
	hasList bool
}

type storeImpl struct {
	owners   *xsync.MapOf[string, entry]
	catalogs map[common.Catalog][]string
}

// NewMemoryStore creates a new in-memory owner store.
// The catalogs are copied, nil falls back to the default catalogs.
func NewMemoryStore(catalogs map[common.Catalog][]string) store.IOwnerStore {
	return &storeImpl{
		owners:   xsync.NewMapOf[string, entry](),
		catalogs: store.CopyCatalogs(catalogs),
	}
}

// Factory is the store.Factory of the memory store
func Factory(catalogs map[common.Catalog][]string) (store.IOwnerStore, error) {
	return NewMemoryStore(catalogs), nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) FindOwner(_ context.Context, owner string) (*string, bool, error) {
	e, ok := s.owners.Load(owner)
	if !ok {
		return nil, false, nil
	}
	if !e.hasList {
		return nil, true, nil
	}
	list := e.list
	return &list, true, nil
}

func (s *storeImpl) InsertOwner(_ context.Context, owner string, list *string) error {
	e := entry{}
	if list != nil {
		e = entry{list: *list, hasList: true}
	}
	if _, loaded := s.owners.LoadOrStore(owner, e); loaded {
		return common.ErrOwnerExists
	}
	return nil
}

func (s *storeImpl) UpdateOwner(_ context.Context, owner string, list string) error {
	found := false
	s.owners.Compute(owner, func(old entry, loaded bool) (entry, bool) {
		if !loaded {
			// do not create unknown owners
			return old, true
		}
		found = true
		return entry{list: list, hasList: true}, false
	})
	if !found {
		return common.ErrOwnerNotFound
	}
	return nil
}

func (s *storeImpl) DeleteOwner(_ context.Context, owner string) error {
	if _, loaded := s.owners.LoadAndDelete(owner); !loaded {
		return common.ErrOwnerNotFound
	}
	return nil
}

func (s *storeImpl) ListCatalog(_ context.Context, catalog common.Catalog) ([]string, error) {
	names, ok := s.catalogs[catalog]
	if !ok {
		return nil, common.ErrInvalidCommand
	}
	return append([]string{}, names...), nil
}

func (s *storeImpl) Close() error {
	s.owners.Clear()
	return nil
}
