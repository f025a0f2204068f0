/*
Package cache stores built shared libraries so that building an
ensemble that was already built with the same toolchain skips the
compiler altogether.

Entries are keyed by Key, a digest of the toolchain fingerprint and
the generated sources, so that any change in either produces a new
entry.
*/
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"

	"github.com/pkg/errors"
)

/*
Cache is an interface to a store of built libraries indexed by key.

All its methods take a context that may allow cancelling the
operation (thus forcing the return of an error) if the
implementation allows it.
*/
type Cache interface {
	// Get takes a key and returns the library stored under it, or nil
	// if there is none, or an error if the cache cannot be queried.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores the given library under the given key, replacing
	// any previous entry.
	Put(ctx context.Context, key string, lib []byte) error
	// Close releases any resources held by the cache.
	Close(ctx context.Context) error
}

/*
Key takes the fingerprint of a toolchain and readers for every
generated source, in unit order, and returns the hex encoded SHA-256
digest identifying the library they build.
*/
func Key(fingerprint string, sources ...io.Reader) (string, error) {
	h := sha256.New()
	io.WriteString(h, fingerprint)
	for i, src := range sources {
		h.Write([]byte{0})
		if _, err := io.Copy(h, src); err != nil {
			return "", errors.Wrapf(err, "hashing source %d", i)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

type memoryCache struct {
	entries map[string][]byte
	lock    *sync.RWMutex
}

// NewMemoryCache returns an implementation of Cache with the process
// memory space as underlying backend.
func NewMemoryCache() Cache {
	return &memoryCache{
		entries: make(map[string][]byte),
		lock:    &sync.RWMutex{},
	}
}

func (mc *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	var lib []byte
	err := mc.withRLock(ctx, func(ctx context.Context) error {
		if data, ok := mc.entries[key]; ok {
			lib = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

func (mc *memoryCache) Put(ctx context.Context, key string, lib []byte) error {
	return mc.withLock(ctx, func(ctx context.Context) error {
		mc.entries[key] = append([]byte(nil), lib...)
		return nil
	})
}

func (mc *memoryCache) Close(ctx context.Context) error {
	return nil
}

func (mc *memoryCache) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		mc.lock.Lock()
		select {
		case <-ctx.Done():
			mc.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mc.lock.Unlock()
	}
	return f(ctx)
}

func (mc *memoryCache) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		mc.lock.RLock()
		select {
		case <-ctx.Done():
			mc.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mc.lock.RUnlock()
	}
	return f(ctx)
}
