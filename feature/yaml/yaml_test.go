package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/forestc/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFeatures(t *testing.T) {
	fs, err := ReadFeatures([]byte("features:\n  - sepal_length\n  - sepal_width\n  - petal_length\n"))
	require.NoError(t, err)
	assert.Equal(t, feature.Features{"sepal_length", "sepal_width", "petal_length"}, fs)
}

func TestReadFeaturesErrors(t *testing.T) {
	_, err := ReadFeatures([]byte("labels: [a]\n"))
	assert.Error(t, err)
	_, err = ReadFeatures([]byte("features: [a, a]\n"))
	assert.Error(t, err)
	_, err = ReadFeatures([]byte("features: {a: continuous}\n"))
	assert.Error(t, err)
}

func TestWriteFeaturesReadsBack(t *testing.T) {
	fs := feature.Features{"x0", "x1"}
	md, err := WriteFeatures(fs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "metadata.yml")
	require.NoError(t, os.WriteFile(path, md, 0o644))
	read, err := ReadFeaturesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, fs, read)
}
