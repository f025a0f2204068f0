//go:build !cgo || !(linux || darwin)

package loader

import "github.com/pkg/errors"

// ErrUnsupported is returned by Open and Evaluate on builds without
// cgo or on platforms without dlopen.
var ErrUnsupported = errors.New("loading libraries requires cgo on linux or darwin")

// Library is a loaded ensemble library.
type Library struct {
	path        string
	numFeatures int
}

// Open always fails with ErrUnsupported.
func Open(path string, numFeatures int) (*Library, error) {
	return nil, errors.Wrapf(ErrUnsupported, "loading %s", path)
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// NumFeatures returns the minimum length of the feature vectors the
// library accepts.
func (l *Library) NumFeatures() int {
	return l.numFeatures
}

// Evaluate always fails with ErrUnsupported once the input is
// checked.
func (l *Library) Evaluate(f []float32, workers int) (float64, error) {
	if err := checkInput(len(f), l.numFeatures); err != nil {
		return 0, err
	}
	return 0, ErrUnsupported
}

// Close is a no-op.
func (l *Library) Close() error {
	return nil
}
