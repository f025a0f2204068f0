package codegen

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pbanos/forestc/tree"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// EvaluateFuncName is the name of the ensemble evaluation
	// function exposed by compiled libraries, with signature
	// double evaluate(float* f, int worker_count).
	EvaluateFuncName = "evaluate"
	// PartialFuncPrefix prefixes the index of a tree to name the
	// function evaluating it.
	PartialFuncPrefix = "evaluate_partial_"
)

/*
Generator generates the translation units evaluating tree ensembles
as temporary files.
*/
type Generator struct {
	// Directory for the generated files, the system temporary
	// directory if empty
	Dir string
	// Whether closing a generated unit removes its file
	DeleteOnClose bool
	// Whether the combining function may use OpenMP pragmas to
	// evaluate trees in parallel
	ParallelLoops bool
	// Maximum number of units generated at a time, unlimited if
	// lower than 1
	Workers int
	Logger  *zap.Logger
}

// PartialFuncName returns the name of the function evaluating the
// i-th tree of an ensemble.
func PartialFuncName(i int) string {
	return fmt.Sprintf("%s%d", PartialFuncPrefix, i)
}

/*
Ensemble validates the given ensemble and generates one source unit
per tree, defining PartialFuncName(i) for the i-th tree, followed by
one unit defining the EvaluateFuncName combining function. Units are
independent and can be compiled in parallel.

If generation fails, the units already generated are removed.
*/
func (g *Generator) Ensemble(ctx context.Context, e *tree.Ensemble) ([]*SourceUnit, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	logger := g.logger()
	units := make([]*SourceUnit, len(e.Trees)+1)
	eg, ctx := errgroup.WithContext(ctx)
	if g.Workers > 0 {
		eg.SetLimit(g.Workers)
	}
	for i, t := range e.Trees {
		i, t := i, t
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := g.newUnit(PartialFuncName(i), func(em *Emitter) {
				writeTree(em, t, PartialFuncName(i))
			})
			if err != nil {
				return err
			}
			units[i] = u
			logger.Debug("generated tree unit", zap.Int("tree", i), zap.String("path", u.Path()))
			return nil
		})
	}
	eg.Go(func() error {
		u, err := g.newUnit(EvaluateFuncName, func(em *Emitter) {
			writeCombiner(em, e, g.ParallelLoops)
		})
		if err != nil {
			return err
		}
		units[len(e.Trees)] = u
		logger.Debug("generated combiner unit", zap.String("path", u.Path()), zap.Bool("parallel", g.ParallelLoops))
		return nil
	})
	if err := eg.Wait(); err != nil {
		for _, u := range units {
			if u != nil {
				u.Remove()
			}
		}
		return nil, err
	}
	return units, nil
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

/*
GenerateCombiner validates the given ensemble and writes onto w the
translation unit defining the combining function:

	double evaluate(float* f, int worker_count)

which adds the weighted outputs of every partial tree function to
the ensemble's initial value. With parallelLoops, calls with a
worker_count above 1 spread the trees over that many OpenMP threads
with a sum reduction; otherwise, and always without parallelLoops,
trees are accumulated sequentially in order.
*/
func GenerateCombiner(w io.Writer, e *tree.Ensemble, parallelLoops bool) error {
	if err := e.Validate(); err != nil {
		return err
	}
	em := NewEmitter(w)
	writeCombiner(em, e, parallelLoops)
	return em.Flush()
}

func writeCombiner(em *Emitter, e *tree.Ensemble, parallelLoops bool) {
	n := len(e.Trees)
	em.Scoped(`extern "C" {`, "}", func() {
		pointers := make([]string, n)
		for i := 0; i < n; i++ {
			em.Write(fmt.Sprintf("double %s(float* f);", PartialFuncName(i)))
			pointers[i] = "&" + PartialFuncName(i)
		}
		em.Write(fmt.Sprintf("static double (*funcs[%d])(float* f) = {%s};", n, strings.Join(pointers, ", ")))
		increment := fmt.Sprintf("result += funcs[i](f) * %s;", FormatDouble(e.Weight))
		if !e.Uniform() {
			weights := make([]string, n)
			for i := range weights {
				weights[i] = FormatDouble(e.WeightOf(i))
			}
			em.Write(fmt.Sprintf("static const double weights[%d] = {%s};", n, strings.Join(weights, ", ")))
			increment = "result += funcs[i](f) * weights[i];"
		}
		loop := fmt.Sprintf("for (int i = 0; i < %d; ++i) {", n)
		sequential := func() {
			em.Scoped(loop, "}", func() {
				em.Write(increment)
			})
		}
		decl := fmt.Sprintf("double %s(float* f, int worker_count) {", EvaluateFuncName)
		em.Scoped(decl, "}", func() {
			em.Write(fmt.Sprintf("double result = %s;", FormatDouble(e.InitialValue)))
			if !parallelLoops {
				em.Write("(void)worker_count;")
				sequential()
			} else {
				em.Scoped("if (worker_count <= 1) {", "}", sequential)
				em.Scoped("else {", "}", func() {
					em.Write("#pragma omp parallel for num_threads(worker_count) schedule(static) reduction(+:result)")
					sequential()
				})
			}
			em.Write("return result;")
		})
	})
}
