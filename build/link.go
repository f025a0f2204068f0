package build

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/forestc/tempfile"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
Link links the given objects into a single shared library at output,
or at a new temporary file when output is empty, and returns it.

When the command line would go over the toolchain's length limit,
the object paths are passed to the compiler in a response file
instead, so that the library is always linked in a single step.

The library is linked to a temporary file next to output and only
renamed over it once complete, so a failed link leaves any previous
library at output untouched. Objects and the response file are
discarded whatever the outcome. On failure a *ToolchainError is
returned.
*/
func (o *Orchestrator) Link(ctx context.Context, objects []*Object, output string) (*Library, error) {
	tc := o.Toolchain
	logger := o.logger()
	var cleanup []artifact
	defer func() {
		for _, a := range cleanup {
			if err := discard(tc, a); err != nil {
				logger.Warn("discarding linked artifact", zap.Error(err))
			}
		}
	}()
	for _, obj := range objects {
		cleanup = append(cleanup, obj)
	}
	if len(objects) == 0 {
		return nil, errors.New("linking: no objects to link")
	}
	staged, err := stageLibrary(tc, output)
	if err != nil {
		return nil, errors.Wrap(err, "linking")
	}
	inputs := make([]string, len(objects))
	for i, obj := range objects {
		inputs[i] = obj.Path()
	}
	args := tc.LinkArgs(inputs, staged)
	if tc.ExceedsCommandLine(args) {
		rsp, err := writeResponseFile(tc.TempDir, tc.TempDeleteOnClose(), inputs)
		if err != nil {
			os.Remove(staged)
			return nil, errors.Wrap(err, "linking")
		}
		cleanup = append(cleanup, rsp)
		logger.Debug("passing objects through a response file", zap.String("path", rsp.Path()), zap.Int("objects", len(inputs)))
		args = tc.LinkArgs([]string{"@" + rsp.Path()}, staged)
	}
	if err := o.run(ctx, "linking", "", args); err != nil {
		os.Remove(staged)
		return nil, err
	}
	lib, err := installLibrary(staged, output)
	if err != nil {
		return nil, errors.Wrap(err, "linking")
	}
	logger.Info("linked library", zap.String("path", lib.Path), zap.Int("objects", len(objects)))
	return lib, nil
}

// writeResponseFile writes the given paths to a new temporary file,
// one quoted path per line, and closes it.
func writeResponseFile(dir string, deleteOnClose bool, paths []string) (*tempfile.File, error) {
	f, err := tempfile.Create(dir, responseFilePattern, deleteOnClose)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if _, err = fmt.Fprintf(f, "%s\n", quoteResponsePath(p)); err != nil {
			f.Remove()
			return nil, errors.Wrapf(err, "writing response file %s", f.Path())
		}
	}
	if err = f.Sync(); err != nil {
		f.Remove()
		return nil, errors.Wrapf(err, "writing response file %s", f.Path())
	}
	if !deleteOnClose {
		f.Close()
	}
	return f, nil
}

var responsePathEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteResponsePath(p string) string {
	return `"` + responsePathEscaper.Replace(p) + `"`
}
