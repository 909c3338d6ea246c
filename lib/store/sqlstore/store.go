package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/ValentinKolb/dTodo/lib/store"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var Logger = logger.GetLogger("store")

// catalogTables maps every catalog to its table
var catalogTables = map[common.Catalog]string{
	common.CatalogFruits:    "fruits",
	common.CatalogSuppliers: "suppliers",
}

type storeImpl struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the sqlite database at dsn. Every catalog given
// in catalogs replaces the stored one. Catalogs missing from catalogs keep their
// stored names, empty tables are seeded with the defaults. Use ":memory:" for a
// throwaway database.
func NewSQLiteStore(dsn string, catalogs map[common.Catalog][]string) (store.IOwnerStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dsn)
	}

	// sqlite allows one writer at a time, and every connection to :memory: is a new database
	db.SetMaxOpenConns(1)

	s := &storeImpl{db: db}
	if err := s.init(catalogs); err != nil {
		db.Close()
		return nil, err
	}

	Logger.Infof("Opened sqlite owner store %s", dsn)
	return s, nil
}

// NewFactory returns a store.Factory that opens the database at dsn
func NewFactory(dsn string) store.Factory {
	return func(catalogs map[common.Catalog][]string) (store.IOwnerStore, error) {
		return NewSQLiteStore(dsn, catalogs)
	}
}

// init creates the tables and writes the catalogs
func (s *storeImpl) init(catalogs map[common.Catalog][]string) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS owners (
		name TEXT PRIMARY KEY,
		list TEXT
	)`); err != nil {
		return errors.Wrap(err, "create owners table")
	}

	defaults := common.DefaultCatalogs()
	for catalog, table := range catalogTables {
		if _, err := s.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`, table)); err != nil {
			return errors.Wrapf(err, "create %s table", table)
		}

		if names := catalogs[catalog]; names != nil {
			if err := s.replaceCatalog(table, names); err != nil {
				return err
			}
			continue
		}

		var count int
		if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&count); err != nil {
			return errors.Wrapf(err, "count %s", table)
		}
		if count == 0 {
			if err := s.replaceCatalog(table, defaults[catalog]); err != nil {
				return err
			}
		}
	}
	return nil
}

// replaceCatalog overwrites the rows of a catalog table in one transaction
func (s *storeImpl) replaceCatalog(table string, names []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.WithStack(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return errors.Wrapf(err, "clear %s", table)
	}
	for position, name := range names {
		if _, err := tx.Exec(
			fmt.Sprintf(`INSERT OR IGNORE INTO %s (position, name) VALUES (?, ?)`, table),
			position, name,
		); err != nil {
			return errors.Wrapf(err, "seed %s", table)
		}
	}
	return errors.Wrapf(tx.Commit(), "seed %s", table)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) FindOwner(ctx context.Context, owner string) (*string, bool, error) {
	var list sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT list FROM owners WHERE name = ?`, owner).Scan(&list)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "find owner %s", owner)
	}
	if !list.Valid {
		return nil, true, nil
	}
	return &list.String, true, nil
}

func (s *storeImpl) InsertOwner(ctx context.Context, owner string, list *string) error {
	value := sql.NullString{}
	if list != nil {
		value = sql.NullString{String: *list, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO owners (name, list) VALUES (?, ?)`, owner, value)
	if err != nil {
		return errors.Wrapf(err, "insert owner %s", owner)
	}
	return requireAffected(res, common.ErrOwnerExists)
}

func (s *storeImpl) UpdateOwner(ctx context.Context, owner string, list string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE owners SET list = ? WHERE name = ?`, list, owner)
	if err != nil {
		return errors.Wrapf(err, "update owner %s", owner)
	}
	return requireAffected(res, common.ErrOwnerNotFound)
}

func (s *storeImpl) DeleteOwner(ctx context.Context, owner string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM owners WHERE name = ?`, owner)
	if err != nil {
		return errors.Wrapf(err, "delete owner %s", owner)
	}
	return requireAffected(res, common.ErrOwnerNotFound)
}

func (s *storeImpl) ListCatalog(ctx context.Context, catalog common.Catalog) ([]string, error) {
	table, ok := catalogTables[catalog]
	if !ok {
		return nil, common.ErrInvalidCommand
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT name FROM %s ORDER BY position`, table))
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", table)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.WithStack(err)
		}
		names = append(names, name)
	}
	return names, errors.WithStack(rows.Err())
}

func (s *storeImpl) Close() error {
	return errors.WithStack(s.db.Close())
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// requireAffected returns errNone if the statement did not change any row
func requireAffected(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errNone
	}
	return nil
}
