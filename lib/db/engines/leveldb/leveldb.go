package leveldb

import (
	"encoding/json"
	"github.com/ValentinKolb/dTodo/lib/db"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"sync"
)

// keyPrefix separates records from other keys in the database
const keyPrefix = "todo/"

// LeveldbDB is a db.RecordDB using leveldb. Every record is stored as json under
// its prefixed name.
type LeveldbDB struct {
	*leveldb.DB

	// read-modify-write operations are serialized
	mu sync.Mutex
}

// NewLevelDB opens (or creates) the leveldb database in the directory path
func NewLevelDB(path string) (db.RecordDB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &LeveldbDB{DB: ldb}, nil
}

// NewMemLevelDB creates a leveldb database that lives in memory only
func NewMemLevelDB() (db.RecordDB, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &LeveldbDB{DB: ldb}, nil
}

// NewFactory returns a db.Factory that opens the database in path
func NewFactory(path string) db.Factory {
	return func() (db.RecordDB, error) {
		return NewLevelDB(path)
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db.RecordDB)
// --------------------------------------------------------------------------

func (kv *LeveldbDB) LoadAll() ([]common.Record, error) {
	iter := kv.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()

	records := make([]common.Record, 0)
	for iter.Next() {
		var r common.Record
		if err := json.Unmarshal(iter.Value(), &r); err != nil {
			return nil, errors.Wrapf(err, "decode %s", iter.Key())
		}
		if !r.Status.Valid() {
			return nil, errors.Errorf("record %q has invalid %s", r.Name, r.Status)
		}
		records = append(records, r)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.WithStack(err)
	}

	// keys are ordered bytewise, which is the order of the names
	return records, nil
}

func (kv *LeveldbDB) Insert(record common.Record) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	key := recordKey(record.Name)
	exists, err := kv.Has(key, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return common.ErrRecordExists
	}
	return kv.save(key, record)
}

func (kv *LeveldbDB) UpdateQuantity(name, quantity string) error {
	return kv.update(name, func(r *common.Record) {
		r.Quantity = quantity
	})
}

func (kv *LeveldbDB) UpdateStatus(name string, status common.Status) error {
	return kv.update(name, func(r *common.Record) {
		r.Status = status
	})
}

func (kv *LeveldbDB) Close() error {
	return errors.WithStack(kv.DB.Close())
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func recordKey(name string) []byte {
	return []byte(keyPrefix + name)
}

// update loads a record, applies fn and stores it again
func (kv *LeveldbDB) update(name string, fn func(r *common.Record)) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	key := recordKey(name)
	v, err := kv.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return common.ErrRecordNotFound
	}
	if err != nil {
		return errors.WithStack(err)
	}

	var r common.Record
	if err := json.Unmarshal(v, &r); err != nil {
		return errors.Wrapf(err, "decode %s", name)
	}
	fn(&r)
	return kv.save(key, r)
}

// save stores a record
func (kv *LeveldbDB) save(key []byte, r common.Record) error {
	value, err := json.Marshal(r)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(kv.Put(key, value, nil))
}
