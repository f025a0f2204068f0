package tree

import (
	"fmt"
	"math"
)

/*
Ensemble is a weighted collection of trees whose outputs are summed
into a single prediction:

	InitialValue + sum(WeightOf(i) * tree_i(x))

Weight applies to every tree unless Weights is set, in which case it
must hold one weight per tree. Weights and the initial value are
opaque to code generation, which emits them verbatim.
*/
type Ensemble struct {
	Trees        []*Tree
	Weight       float64
	Weights      []float64
	InitialValue float64
}

// Uniform returns whether all trees in the ensemble share Weight.
func (e *Ensemble) Uniform() bool {
	return e.Weights == nil
}

// WeightOf returns the weight of the i-th tree.
func (e *Ensemble) WeightOf(i int) float64 {
	if e.Weights == nil {
		return e.Weight
	}
	return e.Weights[i]
}

/*
Validate returns a *GenerationError if the ensemble has no trees,
has a number of per-tree weights other than its number of trees,
non-finite weights or initial value, or any invalid tree.
*/
func (e *Ensemble) Validate() error {
	if len(e.Trees) == 0 {
		return newGenerationError(-1, "ensemble has no trees")
	}
	if e.Weights != nil && len(e.Weights) != len(e.Trees) {
		return newGenerationError(-1, "ensemble has %d weights for %d trees", len(e.Weights), len(e.Trees))
	}
	if !finite(e.InitialValue) {
		return newGenerationError(-1, "initial value %v is not a finite number", e.InitialValue)
	}
	for i, t := range e.Trees {
		if !finite(e.WeightOf(i)) {
			return &GenerationError{Tree: i, Node: -1, Reason: fmt.Sprintf("weight %v is not a finite number", e.WeightOf(i))}
		}
		if t == nil {
			return &GenerationError{Tree: i, Node: -1, Reason: "tree is nil"}
		}
		if err := t.Validate(); err != nil {
			gerr := err.(*GenerationError)
			gerr.Tree = i
			return gerr
		}
	}
	return nil
}

// NumFeatures returns the minimum length of the feature vectors the
// ensemble can evaluate: the highest split feature index plus one.
func (e *Ensemble) NumFeatures() int {
	max := -1
	for _, t := range e.Trees {
		if mf := t.MaxFeature(); mf > max {
			max = mf
		}
	}
	return max + 1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
