/*
Package forestc compiles decision tree ensembles into native shared
libraries exposing a single C function:

	double evaluate(float* f, int worker_count)

A Compiler validates the ensemble, generates one C++ translation unit
per tree plus one combining them, compiles the units in parallel and
links the objects into the library, optionally skipping the compiler
when an identical build is found in a cache.
*/
package forestc

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/pbanos/forestc/build"
	"github.com/pbanos/forestc/cache"
	"github.com/pbanos/forestc/codegen"
	"github.com/pbanos/forestc/toolchain"
	"github.com/pbanos/forestc/tree"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
Compiler builds ensembles into shared libraries with a resolved
toolchain.
*/
type Compiler struct {
	Toolchain *toolchain.Toolchain
	// Maximum number of units generated or compiled at a time,
	// the number of CPUs when lower than 1
	Workers int
	// Optional cache of built libraries
	Cache  cache.Cache
	Logger *zap.Logger
}

// New returns a Compiler for the given toolchain with as many
// workers as CPUs and no cache.
func New(tc *toolchain.Toolchain, logger *zap.Logger) *Compiler {
	return &Compiler{Toolchain: tc, Logger: logger}
}

/*
Compile takes a context, an ensemble and an output path and builds
the ensemble into a shared library at the output path, or at a new
temporary file when the path is empty. It returns the library, whose
file belongs to the caller from then on.

A malformed ensemble is reported with a *tree.GenerationError before
any file is written. A failing compiler invocation is reported with a
*build.ToolchainError. Either way no library is produced and the
intermediate files are discarded.
*/
func (c *Compiler) Compile(ctx context.Context, e *tree.Ensemble, output string) (*build.Library, error) {
	logger := c.logger()
	start := time.Now()
	if err := e.Validate(); err != nil {
		return nil, err
	}
	units, err := c.generator().Ensemble(ctx, e)
	if err != nil {
		return nil, errors.Wrap(err, "generating sources")
	}
	logger.Info("generated sources", zap.Int("trees", len(e.Trees)), zap.Int("units", len(units)))
	orch := build.New(c.Toolchain, c.Workers, logger)
	sources := make([]build.Source, len(units))
	for i, u := range units {
		sources[i] = u
	}
	var key string
	if c.Cache != nil {
		key, err = c.cacheKey(units)
		if err != nil {
			orch.Discard(sources)
			return nil, err
		}
		lib, err := c.fromCache(ctx, key, output)
		if err != nil || lib != nil {
			orch.Discard(sources)
			return lib, err
		}
	}
	objects, err := orch.Compile(ctx, sources)
	if err != nil {
		orch.Discard(sources)
		return nil, err
	}
	lib, err := orch.Link(ctx, objects, output)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil {
		c.toCache(ctx, key, lib)
	}
	logger.Info("built library", zap.String("path", lib.Path), zap.Duration("elapsed", time.Since(start)))
	return lib, nil
}

func (c *Compiler) generator() *codegen.Generator {
	return &codegen.Generator{
		Dir:           c.Toolchain.TempDir,
		DeleteOnClose: c.Toolchain.TempDeleteOnClose(),
		ParallelLoops: c.Toolchain.ParallelLoops(),
		Workers:       c.Workers,
		Logger:        c.Logger,
	}
}

func (c *Compiler) cacheKey(units []*codegen.SourceUnit) (string, error) {
	readers := make([]io.Reader, len(units))
	for i, u := range units {
		data, err := u.Contents()
		if err != nil {
			return "", errors.Wrap(err, "computing cache key")
		}
		readers[i] = bytes.NewReader(data)
	}
	return cache.Key(c.Toolchain.Fingerprint(), readers...)
}

// fromCache returns the library cached under key written to output,
// or nil if there is none. A failing cache counts as a miss.
func (c *Compiler) fromCache(ctx context.Context, key, output string) (*build.Library, error) {
	data, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.logger().Warn("looking up library in cache", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	if data == nil {
		c.logger().Debug("library not cached", zap.String("key", key))
		return nil, nil
	}
	lib, err := build.WriteLibrary(c.Toolchain, data, output)
	if err != nil {
		return nil, errors.Wrap(err, "reusing cached library")
	}
	c.logger().Info("reused cached library", zap.String("key", key), zap.String("path", lib.Path))
	return lib, nil
}

func (c *Compiler) toCache(ctx context.Context, key string, lib *build.Library) {
	data, err := os.ReadFile(lib.Path)
	if err == nil {
		err = c.Cache.Put(ctx, key, data)
	}
	if err != nil {
		c.logger().Warn("caching library", zap.String("key", key), zap.Error(err))
		return
	}
	c.logger().Debug("cached library", zap.String("key", key), zap.Int("bytes", len(data)))
}

func (c *Compiler) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
