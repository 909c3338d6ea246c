// Package leveldb implements db.RecordDB on goleveldb, one json value per record.
// NewMemLevelDB keeps everything in memory and is meant for tests.
package leveldb
