package tree

/*
Node is a read-only view over a single node of a Tree.
*/
type Node struct {
	// The id of the node on the tree, its index in the node arrays
	ID int
	// The number of splits between the root and the node
	Level int
	// Whether the node is a leaf
	Leaf bool
	// The ids of the nodes directly under this node, Leaf for leaves
	Left, Right int
	// The index of the feature the node splits on
	Feature int
	// The split threshold: samples with a value for the feature lower
	// or equal to it go left
	Threshold float64
	// The prediction of a leaf
	Value float64
}

// Node returns a view of the node with the given id on the tree.
func (t *Tree) Node(id int) Node {
	return Node{
		ID:        id,
		Leaf:      t.IsLeaf(id),
		Left:      t.ChildrenLeft[id],
		Right:     t.ChildrenRight[id],
		Feature:   t.Feature[id],
		Threshold: t.Threshold[id],
		Value:     t.Value[id],
	}
}

// Traverse takes a bottomup boolean and an error-returning
// function that takes a node, and goes through the tree from
// its root calling the function with every traversed node.
// Left subtrees are traversed before right ones. Traverse will
// call the function with a parent node before calling it for
// its children if bottomup is false, and after its children if
// bottomup is true.
// If the call to the function returns an error, the traversing
// is aborted and the error is returned.
// The tree is expected to be valid.
func (t *Tree) Traverse(bottomup bool, f func(Node) error) error {
	if t.Len() == 0 {
		return nil
	}
	return t.traverse(0, 0, bottomup, f)
}

func (t *Tree) traverse(id, level int, bottomup bool, f func(Node) error) error {
	n := t.Node(id)
	n.Level = level
	if !bottomup {
		if err := f(n); err != nil {
			return err
		}
	}
	if !n.Leaf {
		if err := t.traverse(n.Left, level+1, bottomup, f); err != nil {
			return err
		}
		if err := t.traverse(n.Right, level+1, bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(n)
	}
	return nil
}
