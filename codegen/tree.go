package codegen

import (
	"fmt"
	"io"

	"github.com/pbanos/forestc/tree"
)

const alwaysInline = "__attribute__((__always_inline__))"

/*
GenerateTree validates the given tree and writes onto w a C++
translation unit defining an always-inline, C-linkage function
with the given name that evaluates the tree on a float feature
array, with every split and leaf inlined as nested conditionals:

	extern "C" {
	  __attribute__((__always_inline__)) double evaluate_partial_0(float* f) {
	    if (f[9] <= 0.176f) {
	      return 0.0;
	    }
	    else {
	      return 1.0;
	    }
	  }
	}

The output only depends on the tree and name.
*/
func GenerateTree(w io.Writer, t *tree.Tree, name string) error {
	if err := t.Validate(); err != nil {
		return err
	}
	e := NewEmitter(w)
	writeTree(e, t, name)
	return e.Flush()
}

func writeTree(e *Emitter, t *tree.Tree, name string) {
	var recur func(node int)
	recur = func(node int) {
		if t.IsLeaf(node) {
			e.Write(fmt.Sprintf("return %s;", FormatDouble(t.Value[node])))
			return
		}
		branch := fmt.Sprintf("if (f[%d] <= %s) {", t.Feature[node], FormatThreshold(t.Threshold[node]))
		e.Scoped(branch, "}", func() {
			recur(t.ChildrenLeft[node])
		})
		e.Scoped("else {", "}", func() {
			recur(t.ChildrenRight[node])
		})
	}
	e.Scoped(`extern "C" {`, "}", func() {
		decl := fmt.Sprintf("%s double %s(float* f) {", alwaysInline, name)
		e.Scoped(decl, "}", func() {
			recur(0)
		})
	})
}

// Tree validates the given tree and generates a source unit with
// the function evaluating it under the given name.
func (g *Generator) Tree(t *tree.Tree, name string) (*SourceUnit, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return g.newUnit(name, func(e *Emitter) {
		writeTree(e, t, name)
	})
}
