package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stump returns a tree splitting on f[feature] <= threshold.
func stump(feature int, threshold, left, right float64) *Tree {
	return &Tree{
		ChildrenLeft:  []int{1, Leaf, Leaf},
		ChildrenRight: []int{2, Leaf, Leaf},
		Feature:       []int{feature, Leaf, Leaf},
		Threshold:     []float64{threshold, -2, -2},
		Value:         []float64{0, left, right},
	}
}

func depthThree() *Tree {
	return &Tree{
		ChildrenLeft:  []int{1, 3, Leaf, Leaf, Leaf},
		ChildrenRight: []int{2, 4, Leaf, Leaf, Leaf},
		Feature:       []int{0, 2, Leaf, Leaf, Leaf},
		Threshold:     []float64{0.5, -1.25, 0, 0, 0},
		Value:         []float64{0, 0, 3, 1, 2},
	}
}

func TestValidateWellFormed(t *testing.T) {
	assert.NoError(t, NewLeaf(4.2).Validate())
	assert.NoError(t, stump(9, 0.176, 0, 1).Validate())
	assert.NoError(t, depthThree().Validate())
}

func TestValidateMalformed(t *testing.T) {
	cases := map[string]struct {
		tree *Tree
		node int
	}{
		"no nodes": {&Tree{}, -1},
		"arrays differ in length": {&Tree{
			ChildrenLeft:  []int{Leaf},
			ChildrenRight: []int{Leaf},
			Feature:       []int{Leaf},
			Threshold:     []float64{0},
			Value:         []float64{},
		}, -1},
		"leaf with right child": {&Tree{
			ChildrenLeft:  []int{1, Leaf, Leaf},
			ChildrenRight: []int{2, 0, Leaf},
			Feature:       []int{0, Leaf, Leaf},
			Threshold:     []float64{0, 0, 0},
			Value:         []float64{0, 1, 2},
		}, 1},
		"split missing right child": {&Tree{
			ChildrenLeft:  []int{1, Leaf},
			ChildrenRight: []int{Leaf, Leaf},
			Feature:       []int{0, Leaf},
			Threshold:     []float64{0, 0},
			Value:         []float64{0, 1},
		}, 0},
		"child out of range": {&Tree{
			ChildrenLeft:  []int{1, Leaf},
			ChildrenRight: []int{7, Leaf},
			Feature:       []int{0, Leaf},
			Threshold:     []float64{0, 0},
			Value:         []float64{0, 1},
		}, 0},
		"cycle": {&Tree{
			ChildrenLeft:  []int{1, 0, Leaf},
			ChildrenRight: []int{2, 2, Leaf},
			Feature:       []int{0, 0, Leaf},
			Threshold:     []float64{0, 0, 0},
			Value:         []float64{0, 0, 1},
		}, 0},
		"shared child": {&Tree{
			ChildrenLeft:  []int{1, Leaf},
			ChildrenRight: []int{1, Leaf},
			Feature:       []int{0, Leaf},
			Threshold:     []float64{0, 0},
			Value:         []float64{0, 1},
		}, 1},
		"unreachable node": {&Tree{
			ChildrenLeft:  []int{Leaf, Leaf},
			ChildrenRight: []int{Leaf, Leaf},
			Feature:       []int{Leaf, Leaf},
			Threshold:     []float64{0, 0},
			Value:         []float64{0, 1},
		}, 1},
		"negative feature": {stump(-3, 0.5, 0, 1), 0},
		"nan threshold":    {stump(0, math.NaN(), 0, 1), 0},
		"infinite value":   {stump(0, 0.5, math.Inf(1), 1), 1},
		"nan root leaf":    {NewLeaf(math.NaN()), 0},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := c.tree.Validate()
			require.Error(t, err)
			gerr, ok := err.(*GenerationError)
			require.True(t, ok, "expected a *GenerationError, got %T", err)
			assert.Equal(t, c.node, gerr.Node)
			assert.Equal(t, -1, gerr.Tree)
		})
	}
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 1, NewLeaf(0).Depth())
	assert.Equal(t, 2, stump(9, 0.176, 0, 1).Depth())
	assert.Equal(t, 3, depthThree().Depth())
}

func TestMaxFeature(t *testing.T) {
	assert.Equal(t, -1, NewLeaf(0).MaxFeature())
	assert.Equal(t, 9, stump(9, 0.176, 0, 1).MaxFeature())
	assert.Equal(t, 2, depthThree().MaxFeature())
}

func TestTraverseOrder(t *testing.T) {
	var topdown, bottomup []int
	tr := depthThree()
	require.NoError(t, tr.Traverse(false, func(n Node) error {
		topdown = append(topdown, n.ID)
		return nil
	}))
	require.NoError(t, tr.Traverse(true, func(n Node) error {
		bottomup = append(bottomup, n.ID)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 3, 4, 2}, topdown)
	assert.Equal(t, []int{3, 4, 1, 2, 0}, bottomup)
}

func TestString(t *testing.T) {
	expected := "[0] f[9] <= 0.176\n" +
		"|__[1] 0\n" +
		"|__[2] 1\n"
	assert.Equal(t, expected, stump(9, 0.176, 0, 1).String())
}
