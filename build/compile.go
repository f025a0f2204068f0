/*
Package build drives the C++ toolchain to turn generated translation
units into a shared library: every unit is compiled to an object file
by a bounded pool of compiler processes, then all objects are linked
together. Any failure is fatal, there are no partial results.
*/
package build

import (
	"bytes"
	"context"
	"runtime"
	"time"

	"github.com/pbanos/forestc/tempfile"
	"github.com/pbanos/forestc/toolchain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

/*
Orchestrator compiles and links translation units with a Toolchain.
*/
type Orchestrator struct {
	Toolchain *toolchain.Toolchain
	// Maximum number of compiler processes running at a time,
	// defaults to the number of CPUs when lower than 1
	Workers int
	Logger  *zap.Logger
}

// New returns an Orchestrator for the given toolchain and number of
// workers.
func New(tc *toolchain.Toolchain, workers int, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{Toolchain: tc, Workers: workers, Logger: logger}
}

/*
Compile compiles every source into its own object file, running up
to o.Workers compiler processes at a time, and returns the objects
in the same order as the sources.

Compiled sources are discarded. The first failing compilation
cancels the rest, discards the objects produced so far and is
returned as a *ToolchainError. Sources are left for the caller to
discard on failure.
*/
func (o *Orchestrator) Compile(ctx context.Context, sources []Source) ([]*Object, error) {
	tc := o.Toolchain
	logger := o.logger()
	if !tc.DeleteOnClose() {
		// the compiler cannot read files we still hold open here
		for _, src := range sources {
			if err := src.Close(); err != nil {
				return nil, errors.Wrapf(err, "compiling %s", src.Name())
			}
		}
	}
	objects := make([]*Object, len(sources))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers())
	start := time.Now()
	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			obj, err := o.compile(gctx, src)
			if err != nil {
				return err
			}
			objects[i] = obj
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, obj := range objects {
			if obj != nil {
				discard(tc, obj)
			}
		}
		return nil, err
	}
	for _, src := range sources {
		if err := discard(tc, src); err != nil {
			logger.Warn("discarding compiled source", zap.String("unit", src.Name()), zap.Error(err))
		}
	}
	logger.Info("compiled units", zap.Int("units", len(sources)), zap.Int("workers", o.workers()), zap.Duration("elapsed", time.Since(start)))
	return objects, nil
}

func (o *Orchestrator) compile(ctx context.Context, src Source) (*Object, error) {
	tc := o.Toolchain
	f, err := tempfile.Create(tc.TempDir, objectPattern, tc.TempDeleteOnClose())
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", src.Name())
	}
	obj := &Object{File: f, unit: src.Name()}
	if !f.DeleteOnClose() {
		f.Close()
	}
	err = o.run(ctx, "compiling", src.Name(), tc.CompileArgs(src.Path(), obj.Path()))
	if err != nil {
		discard(tc, obj)
		return nil, err
	}
	o.logger().Debug("compiled unit", zap.String("unit", src.Name()), zap.String("object", obj.Path()))
	return obj, nil
}

func (o *Orchestrator) run(ctx context.Context, stage, unit string, args []string) error {
	tc := o.Toolchain
	cmd := toolchain.Command(ctx, tc.Compiler, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	o.logger().Debug("running compiler", zap.String("stage", stage), zap.String("unit", unit), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "%s %s", stage, unit)
		}
		return &ToolchainError{
			Stage:   stage,
			Unit:    unit,
			Command: append([]string{tc.Compiler}, args...),
			Output:  out.String(),
			Err:     err,
		}
	}
	return nil
}

func (o *Orchestrator) workers() int {
	if o.Workers < 1 {
		return runtime.NumCPU()
	}
	return o.Workers
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
