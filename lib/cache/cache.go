package cache

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dTodo/lib/db"
	"github.com/ValentinKolb/dTodo/rpc/client"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"strings"
	"sync"
)

var Logger = logger.GetLogger("cache")

// Options configures the cache
type Options struct {
	// Owner is the owner the list is synced to
	Owner string
	// Catalog validates record names, defaults to the fruits catalog
	Catalog common.Catalog
	// SyncOnWrite pushes the list after every successful mutation
	SyncOnWrite bool
	// CreateBeforeStore creates an unknown owner with CreateOwner before the Store fallback
	CreateBeforeStore bool
}

// New creates a cache on top of the local database and the remote client.
// The cache is empty until Load is called.
func New(database db.RecordDB, remote client.ITodoClient, opts Options) ICache {
	return &cacheImpl{
		db:      database,
		remote:  remote,
		opts:    opts,
		records: make(map[string]common.Record),
	}
}

type cacheImpl struct {
	db     db.RecordDB
	remote client.ITodoClient
	opts   Options

	// mu serializes all mutations and guards the fields below
	mu      sync.Mutex
	records map[string]common.Record
	catalog map[string]struct{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see ICache)
// --------------------------------------------------------------------------

func (c *cacheImpl) Load() error {
	records, err := c.db.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make(map[string]common.Record, len(records))
	for _, r := range records {
		c.records[r.Name] = r
	}
	Logger.Debugf("Loaded %d records", len(records))
	return nil
}

func (c *cacheImpl) Add(ctx context.Context, name, quantity string) error {
	return c.mutate(ctx, name, func(name string) (bool, error) {
		if _, ok := c.records[name]; ok {
			return false, common.ErrRecordExists
		}

		record := common.Record{Name: name, Quantity: strings.TrimSpace(quantity), Status: common.StatusQueued}
		if err := c.db.Insert(record); err != nil {
			return false, err
		}
		c.records[name] = record
		return true, nil
	})
}

func (c *cacheImpl) Edit(ctx context.Context, name, quantity string) error {
	return c.mutate(ctx, name, func(name string) (bool, error) {
		record, ok := c.records[name]
		if !ok {
			return false, common.ErrRecordNotFound
		}
		if record.Status == common.StatusCompleted {
			return false, common.ErrRecordCompleted
		}

		quantity = strings.TrimSpace(quantity)
		if record.Quantity == quantity {
			return false, nil
		}
		if err := c.db.UpdateQuantity(name, quantity); err != nil {
			return false, err
		}
		record.Quantity = quantity
		c.records[name] = record
		return true, nil
	})
}

func (c *cacheImpl) Done(ctx context.Context, name string) error {
	return c.setStatus(ctx, name, common.StatusCompleted)
}

func (c *cacheImpl) Undo(ctx context.Context, name string) error {
	return c.setStatus(ctx, name, common.StatusQueued)
}

func (c *cacheImpl) Records() []common.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *cacheImpl) List() common.TodoList {
	return common.PartitionRecords(c.Records())
}

func (c *cacheImpl) Sync(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sync(ctx)
}

func (c *cacheImpl) Owner() string {
	return c.opts.Owner
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// mutate validates the name and runs apply under the lock.
// apply reports whether it changed anything, only changes trigger a sync on write.
func (c *cacheImpl) mutate(ctx context.Context, name string, apply func(name string) (bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.validate(ctx, name)
	if err != nil {
		return err
	}

	changed, err := apply(name)
	if err != nil {
		return err
	}
	if changed && c.opts.SyncOnWrite {
		return c.sync(ctx)
	}
	return nil
}

func (c *cacheImpl) setStatus(ctx context.Context, name string, status common.Status) error {
	return c.mutate(ctx, name, func(name string) (bool, error) {
		record, ok := c.records[name]
		if !ok {
			return false, common.ErrRecordNotFound
		}
		if record.Status == status {
			return false, nil
		}
		if err := c.db.UpdateStatus(name, status); err != nil {
			return false, err
		}
		record.Status = status
		c.records[name] = record
		return true, nil
	})
}

// validate normalizes the name and checks it against the catalog.
// The catalog is fetched from the server once and kept for the lifetime of the cache.
func (c *cacheImpl) validate(ctx context.Context, name string) (string, error) {
	if c.catalog == nil {
		names, err := c.remote.ListCatalog(ctx, c.opts.Catalog)
		if err != nil {
			return "", fmt.Errorf("failed to fetch %s catalog: %w", c.opts.Catalog, err)
		}
		c.catalog = make(map[string]struct{}, len(names))
		for _, n := range names {
			c.catalog[common.NormalizeName(n)] = struct{}{}
		}
	}

	normalized := common.NormalizeName(name)
	if _, ok := c.catalog[normalized]; !ok {
		return "", &common.ValidationError{Name: name, Catalog: c.opts.Catalog}
	}
	return normalized, nil
}

// snapshot returns the records sorted by name, the lock must be held
func (c *cacheImpl) snapshot() []common.Record {
	records := make([]common.Record, 0, len(c.records))
	for _, r := range c.records {
		records = append(records, r)
	}
	return db.SortRecords(records)
}

// sync pushes the list with UpdateList and falls back to Store for an unknown owner.
// The lock must be held.
func (c *cacheImpl) sync(ctx context.Context) error {
	list, err := common.PartitionRecords(c.snapshot()).Marshal()
	if err != nil {
		return err
	}

	err = c.remote.UpdateList(ctx, c.opts.Owner, list)
	if !errors.Is(err, common.ErrOwnerNotFound) {
		if err == nil {
			Logger.Debugf("Updated list of %s", c.opts.Owner)
		}
		return err
	}

	Logger.Infof("Owner %s is unknown to the server, storing list", c.opts.Owner)
	if c.opts.CreateBeforeStore {
		if err := c.remote.CreateOwner(ctx, c.opts.Owner); err != nil && !errors.Is(err, common.ErrOwnerExists) {
			return err
		}
	}

	err = c.remote.Store(ctx, c.opts.Owner, list)
	if errors.Is(err, common.ErrListExists) {
		// another client stored a list in the meantime, last sync wins
		return c.remote.UpdateList(ctx, c.opts.Owner, list)
	}
	return err
}
