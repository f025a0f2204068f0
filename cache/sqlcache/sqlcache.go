/*
Package sqlcache provides a library cache backed by an SQL database.
The SQL dialect is handled by an Adapter; the sqlite3adapter and
pgadapter subpackages provide adapters for SQLite3 files and
PostgreSQL servers.
*/
package sqlcache

import (
	"context"

	"github.com/pkg/errors"
)

/*
Adapter is an interface providing the statements needed to implement
a library cache with a database backend.
*/
type Adapter interface {
	// CreateLibraryTable creates the table holding the libraries if
	// it does not exist yet.
	CreateLibraryTable(ctx context.Context) error
	// GetLibrary returns the library stored under the given key or
	// nil if there is none.
	GetLibrary(ctx context.Context, key string) ([]byte, error)
	// PutLibrary inserts or replaces the library under the given key.
	PutLibrary(ctx context.Context, key string, lib []byte) error
	Close() error
}

// Cache stores libraries in a database through an Adapter. It
// satisfies cache.Cache.
type Cache struct {
	adapter Adapter
}

/*
New takes a context and an Adapter, ensures the library table exists
and returns a Cache working on it, or an error if the table cannot be
created.
*/
func New(ctx context.Context, a Adapter) (*Cache, error) {
	if err := a.CreateLibraryTable(ctx); err != nil {
		return nil, errors.Wrap(err, "creating library table")
	}
	return &Cache{a}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	lib, err := c.adapter.GetLibrary(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving library %q", key)
	}
	return lib, nil
}

func (c *Cache) Put(ctx context.Context, key string, lib []byte) error {
	if err := c.adapter.PutLibrary(ctx, key, lib); err != nil {
		return errors.Wrapf(err, "storing library %q", key)
	}
	return nil
}

func (c *Cache) Close(ctx context.Context) error {
	return c.adapter.Close()
}
