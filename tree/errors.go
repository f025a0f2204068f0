package tree

import "fmt"

/*
GenerationError is returned when a tree or ensemble is malformed
and no code can be generated for it. Tree and Node are -1 when the
problem does not concern a particular tree or node.
*/
type GenerationError struct {
	Tree   int
	Node   int
	Reason string
}

func newGenerationError(node int, format string, a ...interface{}) *GenerationError {
	return &GenerationError{Tree: -1, Node: node, Reason: fmt.Sprintf(format, a...)}
}

func (e *GenerationError) Error() string {
	msg := "malformed ensemble: "
	if e.Tree >= 0 {
		msg += fmt.Sprintf("tree %d: ", e.Tree)
	}
	if e.Node >= 0 {
		msg += fmt.Sprintf("node %d: ", e.Node)
	}
	return msg + e.Reason
}
