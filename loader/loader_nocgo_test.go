//go:build !cgo || !(linux || darwin)

package loader

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestOpenUnsupported(t *testing.T) {
	_, err := Open("ensemble.so", 1)
	assert.Equal(t, ErrUnsupported, errors.Cause(err))
}

func TestEvaluateUnsupported(t *testing.T) {
	l := &Library{numFeatures: 2}
	_, err := l.Evaluate(make([]float32, 1), 1)
	assert.Error(t, err)
	assert.NotEqual(t, ErrUnsupported, err)
	_, err = l.Evaluate(make([]float32, 2), 1)
	assert.Equal(t, ErrUnsupported, err)
	assert.NoError(t, l.Close())
}
