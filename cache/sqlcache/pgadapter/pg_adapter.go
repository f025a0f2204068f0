/*
Package pgadapter provides an implementation of the
Adapter interface in the sqlcache package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pbanos/forestc/cache/sqlcache"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

const (
	libraryTableCreateStmt = `CREATE TABLE IF NOT EXISTS libraries (
		key TEXT PRIMARY KEY,
		library BYTEA NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT now())`
	librarySelectStmt = `SELECT library FROM libraries WHERE key = $1`
	libraryUpsertStmt = `INSERT INTO libraries (key, library) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET library = EXCLUDED.library, created_at = now()`
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqlcache.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) CreateLibraryTable(ctx context.Context) error {
	createStmt, err := a.db.PrepareContext(ctx, libraryTableCreateStmt)
	if err != nil {
		return fmt.Errorf("preparing libraries creation statement: %v", err)
	}
	defer createStmt.Close()
	_, err = createStmt.ExecContext(ctx)
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
		return fmt.Errorf("upserting into libraries: %v", err)
	}
	return nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}
