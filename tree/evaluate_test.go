package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateStump(t *testing.T) {
	tr := stump(9, 0.176, 0, 1)
	x := make([]float32, 10)
	x[9] = 0.1
	assert.Equal(t, 0.0, Evaluate(tr, x))
	x[9] = 0.2
	assert.Equal(t, 1.0, Evaluate(tr, x))
}

func TestEvaluateComparesInDoublePrecision(t *testing.T) {
	// float32(0.176) is just below 0.176, so it goes left
	tr := stump(0, 0.176, 0, 1)
	assert.Equal(t, 0.0, Evaluate(tr, []float32{0.176}))
	// the float32 above it goes right
	assert.Equal(t, 1.0, Evaluate(tr, []float32{math.Nextafter32(0.176, 1)}))
	assert.Equal(t, 0.0, Evaluate(tr, []float64{0.176}))
}

func TestEvaluateUndefinedGoesRight(t *testing.T) {
	tr := stump(0, 0.5, 0, 1)
	assert.Equal(t, 1.0, Evaluate(tr, []float32{float32(math.NaN())}))
}

func TestEvaluateDepthThree(t *testing.T) {
	tr := depthThree()
	assert.Equal(t, 1.0, Evaluate(tr, []float64{0, 0, -2}))
	assert.Equal(t, 2.0, Evaluate(tr, []float64{0.5, 0, 0}))
	assert.Equal(t, 3.0, Evaluate(tr, []float64{0.6, 0, -2}))
}

func TestEvaluateEnsemble(t *testing.T) {
	e := &Ensemble{
		Trees:  []*Tree{stump(0, 0.5, 0, 1), stump(1, 0.5, 0, 1)},
		Weight: 0.5,
	}
	assert.Equal(t, 0.5, EvaluateEnsemble(e, []float32{0.7, 0.2}))
	e.InitialValue = 2
	e.Weights = []float64{1, 3}
	assert.Equal(t, 6.0, EvaluateEnsemble(e, []float32{0.7, 0.7}))
}

func TestEvaluateBatch(t *testing.T) {
	e := &Ensemble{Trees: []*Tree{stump(0, 0.5, -1, 1)}, Weight: 2, InitialValue: 1}
	xs := [][]float32{{0}, {1}, {0.5}, {0.75}}
	assert.Equal(t, []float64{-1, 3, -1, 3}, EvaluateBatch(e, xs, 3))
}
