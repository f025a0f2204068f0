//go:build cgo && (linux || darwin)

package loader

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/pbanos/forestc"
	"github.com/pbanos/forestc/toolchain"
	"github.com/pbanos/forestc/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build compiles e with the host compiler, falling back to a build
// without OpenMP when the compiler lacks it, and loads the result.
func build(t *testing.T, e *tree.Ensemble) *Library {
	ctx := context.Background()
	cfg := toolchain.Config{TempDir: t.TempDir()}
	tc, err := toolchain.Resolve(ctx, cfg)
	if forestc.IsConfigError(err) {
		t.Skipf("no C++ compiler: %v", err)
	}
	require.NoError(t, err)
	output := filepath.Join(t.TempDir(), "ensemble.so")
	_, err = forestc.New(tc, nil).Compile(ctx, e, output)
	if forestc.IsToolchainError(err) && tc.ParallelLoops() {
		t.Logf("building without OpenMP: %v", err)
		off := false
		cfg.OpenMP = &off
		tc, err = toolchain.Resolve(ctx, cfg)
		require.NoError(t, err)
		_, err = forestc.New(tc, nil).Compile(ctx, e, output)
	}
	require.NoError(t, err)
	lib, err := Open(output, e.NumFeatures())
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func stump(feature int, threshold, left, right float64) *tree.Tree {
	return &tree.Tree{
		ChildrenLeft:  []int{1, tree.Leaf, tree.Leaf},
		ChildrenRight: []int{2, tree.Leaf, tree.Leaf},
		Feature:       []int{feature, tree.Leaf, tree.Leaf},
		Threshold:     []float64{threshold, 0, 0},
		Value:         []float64{0, left, right},
	}
}

// randomTree grows a random tree of at most the given depth over
// numFeatures features.
func randomTree(r *rand.Rand, depth, numFeatures int) *tree.Tree {
	t := &tree.Tree{}
	var grow func(level int) int
	grow = func(level int) int {
		id := t.Len()
		t.ChildrenLeft = append(t.ChildrenLeft, tree.Leaf)
		t.ChildrenRight = append(t.ChildrenRight, tree.Leaf)
		t.Feature = append(t.Feature, tree.Leaf)
		t.Threshold = append(t.Threshold, 0)
		t.Value = append(t.Value, r.NormFloat64())
		if level+1 >= depth || r.Intn(4) == 0 {
			return id
		}
		t.Feature[id] = r.Intn(numFeatures)
		t.Threshold[id] = r.NormFloat64()
		left := grow(level + 1)
		right := grow(level + 1)
		t.ChildrenLeft[id] = left
		t.ChildrenRight[id] = right
		return id
	}
	grow(0)
	return t
}

func TestScenarioSingleSplit(t *testing.T) {
	e := &tree.Ensemble{Trees: []*tree.Tree{stump(9, 0.176, 0, 1)}, Weight: 1}
	lib := build(t, e)
	f := make([]float32, 10)
	f[9] = 0.1
	v, err := lib.Evaluate(f, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	f[9] = 0.2
	v, err = lib.Evaluate(f, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	f[9] = 0.176
	v, err = lib.Evaluate(f, 1)
	require.NoError(t, err)
	assert.Equal(t, tree.EvaluateEnsemble(e, f), v)
}

func TestScenarioTwoTreesHalfWeight(t *testing.T) {
	e := &tree.Ensemble{
		Trees:  []*tree.Tree{stump(0, 0.5, 0, 1), stump(1, 0.5, 0, 1)},
		Weight: 0.5,
	}
	lib := build(t, e)
	v, err := lib.Evaluate([]float32{0.9, 0.1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestRootLeafIsConstant(t *testing.T) {
	e := &tree.Ensemble{Trees: []*tree.Tree{tree.NewLeaf(2.5)}, Weight: 2, InitialValue: 1}
	lib := build(t, e)
	assert.Equal(t, 0, lib.NumFeatures())
	v, err := lib.Evaluate(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestGoldenEquivalence(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	const numFeatures = 8
	e := &tree.Ensemble{InitialValue: r.NormFloat64()}
	for i := 0; i < 25; i++ {
		e.Trees = append(e.Trees, randomTree(r, 7, numFeatures))
		e.Weights = append(e.Weights, r.Float64())
	}
	require.NoError(t, e.Validate())
	lib := build(t, e)
	for i := 0; i < 500; i++ {
		f := make([]float32, numFeatures)
		for j := range f {
			f[j] = float32(r.NormFloat64())
		}
		expected := tree.EvaluateEnsemble(e, f)
		sequential, err := lib.Evaluate(f, 1)
		require.NoError(t, err)
		assert.InDelta(t, expected, sequential, 1e-9)
		parallel, err := lib.Evaluate(f, 4)
		require.NoError(t, err)
		assert.InDelta(t, sequential, parallel, 1e-9)
	}
}

func TestCloseAfterParallelEvaluate(t *testing.T) {
	e := &tree.Ensemble{
		Trees:  []*tree.Tree{stump(0, 0.5, 0, 1), stump(1, 0.5, 0, 1)},
		Weight: 0.5,
	}
	lib := build(t, e)
	v, err := lib.Evaluate([]float32{0.9, 0.1}, 4)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
	require.NoError(t, lib.Close())
	// idle OpenMP threads outlive the handle
	time.Sleep(200 * time.Millisecond)

	other := build(t, &tree.Ensemble{Trees: []*tree.Tree{stump(0, 0.5, 2, 4)}, Weight: 1})
	v, err = other.Evaluate([]float32{0.9}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
	require.NoError(t, other.Close())
	time.Sleep(200 * time.Millisecond)
}

func TestEvaluateChecksInputLength(t *testing.T) {
	e := &tree.Ensemble{Trees: []*tree.Tree{stump(3, 0, 0, 1)}, Weight: 1}
	lib := build(t, e)
	_, err := lib.Evaluate(make([]float32, 3), 1)
	assert.Error(t, err)
}

func TestEvaluateAfterClose(t *testing.T) {
	e := &tree.Ensemble{Trees: []*tree.Tree{tree.NewLeaf(1)}, Weight: 1}
	lib := build(t, e)
	require.NoError(t, lib.Close())
	require.NoError(t, lib.Close())
	_, err := lib.Evaluate(nil, 1)
	assert.Equal(t, ErrClosed, err)
}

func TestOpenMissingLibrary(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.so"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dlopen")
}
