package codegen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/forestc/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoStumps() *tree.Ensemble {
	return &tree.Ensemble{
		Trees:  []*tree.Tree{stump(0, 0.5, 0, 1), stump(1, 0.5, 0, 1)},
		Weight: 0.5,
	}
}

func TestGenerateCombinerSequential(t *testing.T) {
	expected := `extern "C" {
  double evaluate_partial_0(float* f);
  double evaluate_partial_1(float* f);
  static double (*funcs[2])(float* f) = {&evaluate_partial_0, &evaluate_partial_1};
  double evaluate(float* f, int worker_count) {
    double result = 0.0;
    (void)worker_count;
    for (int i = 0; i < 2; ++i) {
      result += funcs[i](f) * 0.5;
    }
    return result;
  }
}
`
	var buf bytes.Buffer
	require.NoError(t, GenerateCombiner(&buf, twoStumps(), false))
	assert.Equal(t, expected, buf.String())
	assert.NotContains(t, buf.String(), "#pragma")
}

func TestGenerateCombinerParallel(t *testing.T) {
	expected := `extern "C" {
  double evaluate_partial_0(float* f);
  double evaluate_partial_1(float* f);
  static double (*funcs[2])(float* f) = {&evaluate_partial_0, &evaluate_partial_1};
  double evaluate(float* f, int worker_count) {
    double result = 0.0;
    if (worker_count <= 1) {
      for (int i = 0; i < 2; ++i) {
        result += funcs[i](f) * 0.5;
      }
    }
    else {
      #pragma omp parallel for num_threads(worker_count) schedule(static) reduction(+:result)
      for (int i = 0; i < 2; ++i) {
        result += funcs[i](f) * 0.5;
      }
    }
    return result;
  }
}
`
	var buf bytes.Buffer
	require.NoError(t, GenerateCombiner(&buf, twoStumps(), true))
	assert.Equal(t, expected, buf.String())
}

func TestGenerateCombinerPerTreeWeights(t *testing.T) {
	e := twoStumps()
	e.Weights = []float64{0.25, 2}
	e.InitialValue = -1.5
	var buf bytes.Buffer
	require.NoError(t, GenerateCombiner(&buf, e, false))
	src := buf.String()
	assert.Contains(t, src, "static const double weights[2] = {0.25, 2.0};")
	assert.Contains(t, src, "result += funcs[i](f) * weights[i];")
	assert.Contains(t, src, "double result = -1.5;")
}

func TestGenerateCombinerRejectsEmptyEnsemble(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateCombiner(&buf, &tree.Ensemble{Weight: 1}, true)
	require.Error(t, err)
	assert.IsType(t, &tree.GenerationError{}, err)
}

func TestGeneratorEnsemble(t *testing.T) {
	dir := t.TempDir()
	g := &Generator{Dir: dir, DeleteOnClose: true, ParallelLoops: true, Workers: 2}
	e := twoStumps()
	e.Trees = append(e.Trees, tree.NewLeaf(4))
	units, err := g.Ensemble(context.Background(), e)
	require.NoError(t, err)
	require.Len(t, units, 4)
	for i, name := range []string{"evaluate_partial_0", "evaluate_partial_1", "evaluate_partial_2", "evaluate"} {
		assert.Equal(t, name, units[i].Name())
		assert.FileExists(t, units[i].Path())
	}
	var buf bytes.Buffer
	require.NoError(t, GenerateTree(&buf, e.Trees[1], "evaluate_partial_1"))
	data, err := units[1].Contents()
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
	buf.Reset()
	require.NoError(t, GenerateCombiner(&buf, e, true))
	data, err = units[3].Contents()
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))

	for _, u := range units {
		require.NoError(t, u.Close())
		assert.NoFileExists(t, u.Path())
	}
}

func TestGeneratorEnsembleFailsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	g := &Generator{Dir: dir}
	e := twoStumps()
	e.Trees[1] = stump(0, 0.5, 0, 1)
	e.Trees[1].ChildrenRight[0] = 7
	_, err := g.Ensemble(context.Background(), e)
	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src")
	paths, err := WriteDir(twoStumps(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "evaluate_partial_0.cpp"),
		filepath.Join(dir, "evaluate_partial_1.cpp"),
		filepath.Join(dir, "evaluate.cpp"),
	}, paths)
	data, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	assert.Contains(t, string(data), "(void)worker_count;")
}
