/*
Package loader loads shared libraries built by forestc into the
running process and calls their evaluate function. It requires cgo
and a platform with dlopen.
*/
package loader

import "github.com/pkg/errors"

// ErrClosed is returned when evaluating with a closed library.
var ErrClosed = errors.New("library is closed")

func checkInput(n, numFeatures int) error {
	if n < numFeatures {
		return errors.Errorf("feature vector has %d features, library needs at least %d", n, numFeatures)
	}
	return nil
}
