/*
Package tempfile provides the temporary files that hold the
intermediate products of a build: generated sources, object files,
response files and libraries awaiting their caller.

Files follow one of two deletion policies. With delete-on-close,
closing a file removes it. Otherwise closing only releases the
handle and the owner must call Remove once the file is no longer
needed, which is what platforms that cannot delete files still open
for writing require.
*/
package tempfile

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// File is a named temporary file.
type File struct {
	*os.File
	path          string
	deleteOnClose bool
	lock          sync.Mutex
	closed        bool
}

// Create creates a new temporary file in dir (the system default
// when empty) with a name built from pattern as os.CreateTemp does.
func Create(dir, pattern string, deleteOnClose bool) (*File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "creating temporary file")
	}
	return &File{File: f, path: f.Name(), deleteOnClose: deleteOnClose}, nil
}

// Path returns the path to the file.
func (f *File) Path() string {
	return f.path
}

// DeleteOnClose returns whether closing the file removes it.
func (f *File) DeleteOnClose() bool {
	return f.deleteOnClose
}

// Close releases the handle on the file, removing the file too
// under the delete-on-close policy. Closing twice is a no-op.
func (f *File) Close() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	err := f.File.Close()
	if f.deleteOnClose {
		if rerr := os.Remove(f.path); rerr != nil && !os.IsNotExist(rerr) && err == nil {
			err = rerr
		}
	}
	if err != nil {
		return errors.Wrapf(err, "closing %s", f.path)
	}
	return nil
}

// Remove closes the file if still open and removes it regardless
// of its deletion policy. Removing a file that no longer exists is
// not an error.
func (f *File) Remove() error {
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", f.path)
	}
	return nil
}
