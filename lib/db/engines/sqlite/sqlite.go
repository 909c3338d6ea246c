package sqlite

import (
	"database/sql"
	"fmt"
	"github.com/ValentinKolb/dTodo/lib/db"
	"github.com/ValentinKolb/dTodo/rpc/common"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type sqliteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the local record database at dsn.
// Use ":memory:" for a throwaway database.
func NewSQLiteDB(dsn string) (db.RecordDB, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dsn)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS todo_list (
		todo_name TEXT PRIMARY KEY,
		quantity TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "create todo_list table")
	}

	return &sqliteDB{db: conn}, nil
}

// NewFactory returns a db.Factory that opens the database at dsn
func NewFactory(dsn string) db.Factory {
	return func() (db.RecordDB, error) {
		return NewSQLiteDB(dsn)
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db.RecordDB)
// --------------------------------------------------------------------------

func (s *sqliteDB) LoadAll() ([]common.Record, error) {
	rows, err := s.db.Query(`SELECT todo_name, quantity, status FROM todo_list ORDER BY todo_name`)
	if err != nil {
		return nil, errors.Wrap(err, "load records")
	}
	defer rows.Close()

	records := make([]common.Record, 0)
	for rows.Next() {
		var r common.Record
		if err := rows.Scan(&r.Name, &r.Quantity, &r.Status); err != nil {
			return nil, errors.WithStack(err)
		}
		if !r.Status.Valid() {
			return nil, fmt.Errorf("record %q has invalid %s", r.Name, r.Status)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return records, nil
}

func (s *sqliteDB) Insert(record common.Record) error {
	res, err := s.db.Exec(`INSERT OR IGNORE INTO todo_list (todo_name, quantity, status) VALUES (?, ?, ?)`,
		record.Name, record.Quantity, record.Status)
	if err != nil {
		return errors.Wrapf(err, "insert %s", record.Name)
	}
	return requireAffected(res, common.ErrRecordExists)
}

func (s *sqliteDB) UpdateQuantity(name, quantity string) error {
	res, err := s.db.Exec(`UPDATE todo_list SET quantity = ? WHERE todo_name = ?`, quantity, name)
	if err != nil {
		return errors.Wrapf(err, "update quantity of %s", name)
	}
	return requireAffected(res, common.ErrRecordNotFound)
}

func (s *sqliteDB) UpdateStatus(name string, status common.Status) error {
	res, err := s.db.Exec(`UPDATE todo_list SET status = ? WHERE todo_name = ?`, status, name)
	if err != nil {
		return errors.Wrapf(err, "update status of %s", name)
	}
	return requireAffected(res, common.ErrRecordNotFound)
}

func (s *sqliteDB) Close() error {
	return errors.WithStack(s.db.Close())
}

// requireAffected returns errNone if the statement did not touch any row
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
