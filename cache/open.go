package cache

import (
	"context"
	"strings"

	"github.com/pbanos/forestc/cache/rediscache"
	"github.com/pbanos/forestc/cache/sqlcache"
	"github.com/pbanos/forestc/cache/sqlcache/pgadapter"
	"github.com/pbanos/forestc/cache/sqlcache/sqlite3adapter"
	"github.com/pkg/errors"
)

/*
Open takes a context and a cache URL and returns the Cache it
designates:

	memory:                          a cache in process memory
	redis://[:password@]host:port/db a Redis server
	postgres://... or postgresql://  a PostgreSQL database
	sqlite3://path or path.db        an SQLite3 database file
*/
func Open(ctx context.Context, url string) (Cache, error) {
	var (
		adapter sqlcache.Adapter
		err     error
	)
	switch {
	case url == "memory:":
		return NewMemoryCache(), nil
	case strings.HasPrefix(url, "redis://"):
		rc, err := rediscache.Open(url)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		adapter, err = pgadapter.New(url)
	case strings.HasPrefix(url, "sqlite3://"):
		adapter, err = sqlite3adapter.New(strings.TrimPrefix(url, "sqlite3://"))
	case strings.HasSuffix(url, ".db"):
		adapter, err = sqlite3adapter.New(url)
	default:
		return nil, errors.Errorf("unsupported cache URL %q", url)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening cache %s", url)
	}
	c, err := sqlcache.New(ctx, adapter)
	if err != nil {
		adapter.Close()
		return nil, errors.Wrapf(err, "opening cache %s", url)
	}
	return c, nil
}
