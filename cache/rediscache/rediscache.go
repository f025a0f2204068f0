/*
Package rediscache provides a library cache backed by a Redis
server.
*/
package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/redis.v5"
)

// Cache stores libraries as Redis string values. It satisfies
// cache.Cache.
type Cache struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

/*
New takes a redis client, a prefix for the keys of the entries and a
time to live for them (0 for no expiration) and returns a Cache
backed by the client's DB.
*/
func New(rc *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{rc, prefix, ttl}
}

/*
Open takes a redis URL (redis://[:password@]host:port/db) and
returns a Cache backed by it, with keys prefixed by "forestc"
and no expiration. Closing the cache closes the connection.
*/
func Open(url string) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing redis URL %s", url)
	}
	return New(redis.NewClient(opts), "forestc", 0), nil
}

func (rc *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rc.rc.Get(rc.keyFor(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving library %q from redis", key)
	}
	return data, nil
}

func (rc *Cache) Put(ctx context.Context, key string, lib []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rc.rc.Set(rc.keyFor(key), lib, rc.ttl).Err(); err != nil {
		return errors.Wrapf(err, "storing library %q in redis", key)
	}
	return nil
}

func (rc *Cache) Close(ctx context.Context) error {
	return rc.rc.Close()
}

func (rc *Cache) keyFor(key string) string {
	return fmt.Sprintf("%s:lib:%s", rc.prefix, key)
}
