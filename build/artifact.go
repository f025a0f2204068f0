package build

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pbanos/forestc/tempfile"
	"github.com/pbanos/forestc/toolchain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	objectPattern       = "compiledtrees_*.o"
	responseFilePattern = "list_ofiles_*"
)

// Source is a translation unit to compile. Its file is consumed by
// Compile, which closes or removes it once compiled.
type Source interface {
	// Name returns the name of the symbol defined by the unit.
	Name() string
	Path() string
	Close() error
	Remove() error
}

// Object is a compiled translation unit awaiting linking.
type Object struct {
	*tempfile.File
	unit string
}

// Unit returns the name of the unit the object was compiled from.
func (o *Object) Unit() string {
	return o.unit
}

/*
Library is a linked shared library. Its file belongs to the caller,
who is responsible for loading it and eventually removing it.
*/
type Library struct {
	Path string
}

// LibraryPattern is the name pattern of libraries linked to a
// temporary file.
func LibraryPattern() string {
	switch runtime.GOOS {
	case "windows":
		return "compiledtrees_*.dll"
	case "darwin":
		return "compiledtrees_*.dylib"
	}
	return "compiledtrees_*.so"
}

/*
WriteLibrary takes a toolchain, the contents of a library and an
output path and writes the library to output, or to a new temporary
file when output is empty. As with Link, output is replaced only once
the library is completely written.
*/
func WriteLibrary(tc *toolchain.Toolchain, data []byte, output string) (*Library, error) {
	staged, err := stageLibrary(tc, output)
	if err != nil {
		return nil, errors.Wrap(err, "writing library")
	}
	if err = os.WriteFile(staged, data, 0o755); err != nil {
		os.Remove(staged)
		return nil, errors.Wrapf(err, "writing library to %s", staged)
	}
	return installLibrary(staged, output)
}

// stageLibrary creates the file a library is written to before being
// installed at output: a hidden file in the directory of output, or
// a temporary library when output is empty.
func stageLibrary(tc *toolchain.Toolchain, output string) (string, error) {
	dir, pattern := tc.TempDir, LibraryPattern()
	if output != "" {
		dir, pattern = filepath.Dir(output), "."+filepath.Base(output)+".*"
	}
	f, err := tempfile.Create(dir, pattern, false)
	if err != nil {
		return "", err
	}
	if err = f.Close(); err != nil {
		f.Remove()
		return "", err
	}
	return f.Path(), nil
}

// installLibrary makes the staged library executable and renames it
// to output unless output is empty. The staged file is removed on
// failure.
func installLibrary(staged, output string) (*Library, error) {
	if err := os.Chmod(staged, 0o755); err != nil {
		os.Remove(staged)
		return nil, errors.Wrapf(err, "installing library %s", staged)
	}
	if output == "" {
		return &Library{Path: staged}, nil
	}
	if err := os.Rename(staged, output); err != nil {
		os.Remove(staged)
		return nil, errors.Wrapf(err, "installing library to %s", output)
	}
	return &Library{Path: output}, nil
}

type artifact interface {
	Close() error
	Remove() error
}

// discard disposes of an intermediate file that is no longer needed
// according to the toolchain's deletion policy, or just releases it
// when temporary files are to be kept.
func discard(tc *toolchain.Toolchain, a artifact) error {
	if err := a.Close(); err != nil {
		return err
	}
	if tc.KeepTemp || tc.DeleteOnClose() {
		return nil
	}
	return a.Remove()
}

// Discard disposes of sources that will not be compiled, following
// the toolchain's deletion policy.
func (o *Orchestrator) Discard(sources []Source) {
	for _, src := range sources {
		if err := discard(o.Toolchain, src); err != nil {
			o.logger().Warn("discarding source", zap.String("unit", src.Name()), zap.Error(err))
		}
	}
}
