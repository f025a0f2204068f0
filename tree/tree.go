package tree

import (
	"fmt"
	"math"
	"strings"
)

// Leaf is the child index sentinel marking a node as a leaf.
const Leaf = -1

/*
Tree is a binary decision tree with axis-aligned threshold splits
stored as parallel slices indexed by node id. Node 0 is the root.

A node i is a leaf when ChildrenLeft[i] is Leaf, in which case
ChildrenRight[i] must be Leaf too and Value[i] holds the prediction
for samples reaching it. Otherwise samples x with
x[Feature[i]] <= Threshold[i] continue on ChildrenLeft[i] and the
rest on ChildrenRight[i].

Trees are read-only once built: code generation and evaluation never
modify them.
*/
type Tree struct {
	ChildrenLeft  []int
	ChildrenRight []int
	Feature       []int
	Threshold     []float64
	Value         []float64
}

// NewLeaf returns a tree made of a single leaf node with the
// given value.
func NewLeaf(value float64) *Tree {
	return &Tree{
		ChildrenLeft:  []int{Leaf},
		ChildrenRight: []int{Leaf},
		Feature:       []int{Leaf},
		Threshold:     []float64{0},
		Value:         []float64{value},
	}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.ChildrenLeft)
}

// IsLeaf returns whether the node with the given id is a leaf.
func (t *Tree) IsLeaf(node int) bool {
	return t.ChildrenLeft[node] == Leaf
}

/*
Validate checks that the tree is well formed, returning a
*GenerationError describing the first problem found or nil.

A well formed tree has at least one node, the same number of
entries on each of its slices, leaves marked on both children,
in-range children for every split, non-negative split features,
finite thresholds and leaf values, and every node reachable from
the root exactly once.
*/
func (t *Tree) Validate() error {
	n := t.Len()
	if n == 0 {
		return newGenerationError(-1, "tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return newGenerationError(-1, "node arrays differ in length: children_left=%d children_right=%d feature=%d threshold=%d value=%d",
			n, len(t.ChildrenRight), len(t.Feature), len(t.Threshold), len(t.Value))
	}
	visited := make([]bool, n)
	pending := []int{0}
	for len(pending) > 0 {
		i := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if visited[i] {
			return newGenerationError(i, "node reachable more than once from the root")
		}
		visited[i] = true
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == Leaf {
			if right != Leaf {
				return newGenerationError(i, "leaf has a right child %d", right)
			}
			if math.IsNaN(t.Value[i]) || math.IsInf(t.Value[i], 0) {
				return newGenerationError(i, "leaf value %v is not a finite number", t.Value[i])
			}
			continue
		}
		if left < 0 || left >= n {
			return newGenerationError(i, "left child %d out of range", left)
		}
		if right == Leaf {
			return newGenerationError(i, "split is missing its right child")
		}
		if right < 0 || right >= n {
			return newGenerationError(i, "right child %d out of range", right)
		}
		if t.Feature[i] < 0 {
			return newGenerationError(i, "split on negative feature index %d", t.Feature[i])
		}
		if math.IsNaN(t.Threshold[i]) || math.IsInf(t.Threshold[i], 0) {
			return newGenerationError(i, "split threshold %v is not a finite number", t.Threshold[i])
		}
		pending = append(pending, right, left)
	}
	for i, ok := range visited {
		if !ok {
			return newGenerationError(i, "node unreachable from the root")
		}
	}
	return nil
}

// Depth returns the number of levels in the tree: 1 for a tree
// made of a single leaf, 2 for a single split with two leaves
// and so on. The tree is expected to be valid.
func (t *Tree) Depth() int {
	var depth int
	t.Traverse(false, func(n Node) error {
		if n.Level+1 > depth {
			depth = n.Level + 1
		}
		return nil
	})
	return depth
}

// MaxFeature returns the highest feature index used on a split of
// the tree or -1 if the tree has no splits.
func (t *Tree) MaxFeature() int {
	max := -1
	t.Traverse(false, func(n Node) error {
		if !n.Leaf && n.Feature > max {
			max = n.Feature
		}
		return nil
	})
	return max
}

func (t *Tree) String() string {
	if t.Len() == 0 {
		return "[empty]\n"
	}
	return t.subtreeString(0)
}

func (t *Tree) subtreeString(node int) string {
	var result string
	if t.IsLeaf(node) {
		return fmt.Sprintf("[%d] %v\n", node, t.Value[node])
	}
	result = fmt.Sprintf("[%d] f[%d] <= %v\n", node, t.Feature[node], t.Threshold[node])
	children := []int{t.ChildrenLeft[node], t.ChildrenRight[node]}
	for i, child := range children {
		for j, line := range strings.Split(t.subtreeString(child), "\n") {
			if len(line) == 0 {
				continue
			}
			if j == 0 {
				result = fmt.Sprintf("%s|__%s\n", result, line)
			} else if i == len(children)-1 {
				result = fmt.Sprintf("%s   %s\n", result, line)
			} else {
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
