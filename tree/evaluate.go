package tree

import (
	"github.com/unixpickle/essentials"
	"golang.org/x/exp/constraints"
)

// Evaluate walks the given valid tree from its root with the
// feature vector x and returns the value of the leaf it reaches.
// Comparisons happen in double precision, so float32 vectors are
// evaluated exactly like the generated native code does.
func Evaluate[F constraints.Float](t *Tree, x []F) float64 {
	node := 0
	for t.ChildrenLeft[node] != Leaf {
		if float64(x[t.Feature[node]]) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// EvaluateEnsemble accumulates the weighted outputs of the trees of
// the given valid ensemble on x in tree order, starting from its
// initial value.
func EvaluateEnsemble[F constraints.Float](e *Ensemble, x []F) float64 {
	result := e.InitialValue
	for i, t := range e.Trees {
		result += Evaluate(t, x) * e.WeightOf(i)
	}
	return result
}

// EvaluateBatch evaluates the ensemble on every vector in xs using
// up to the given number of goroutines (0 meaning GOMAXPROCS) and
// returns the results in the same order.
func EvaluateBatch[F constraints.Float](e *Ensemble, xs [][]F, workers int) []float64 {
	results := make([]float64, len(xs))
	essentials.ConcurrentMap(workers, len(xs), func(i int) {
		results[i] = EvaluateEnsemble(e, xs[i])
	})
	return results
}
