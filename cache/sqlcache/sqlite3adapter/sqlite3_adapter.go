/*
Package sqlite3adapter provides an implementation of the Adapter
interface in the sqlcache package that works over an SQLite3
database file.
*/
package sqlite3adapter

import (
	"context"
	"database/sql"
	"fmt"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/forestc/cache/sqlcache"
)

const (
	libraryTableCreateStmt = `CREATE TABLE IF NOT EXISTS libraries (
		key TEXT PRIMARY KEY,
		library BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`
	librarySelectStmt = `SELECT library FROM libraries WHERE key = ?`
	libraryUpsertStmt = `INSERT OR REPLACE INTO libraries (key, library) VALUES (?, ?)`
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqlcache.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite3 serializes writers, a single connection avoids busy errors
	db.SetMaxOpenConns(1)
	return &adapter{db}, nil
}

func (a *adapter) CreateLibraryTable(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, libraryTableCreateStmt)
	if err != nil {
		return fmt.Errorf("running libraries creation statement: %v", err)
	}
	return nil
}

func (a *adapter) GetLibrary(ctx context.Context, key string) ([]byte, error) {
	var lib []byte
	err := a.db.QueryRowContext(ctx, librarySelectStmt, key).Scan(&lib)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying libraries: %v", err)
	}
	return lib, nil
}

func (a *adapter) PutLibrary(ctx context.Context, key string, lib []byte) error {
	_, err := a.db.ExecContext(ctx, libraryUpsertStmt, key, lib)
	if err != nil {
		return fmt.Errorf("inserting into libraries: %v", err)
	}
	return nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}
