package codegen

import (
	"os"
	"path/filepath"

	"github.com/pbanos/forestc/tree"
	"github.com/pkg/errors"
)

/*
WriteDir validates the given ensemble and writes its translation
units to dir, creating it if needed, as <function name>.cpp files:
one per tree followed by evaluate.cpp. It returns the paths written.

Unlike Ensemble, the files are regular files left for the caller to
inspect or build by other means.
*/
func WriteDir(e *tree.Ensemble, dir string, parallelLoops bool) ([]string, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	paths := make([]string, 0, len(e.Trees)+1)
	for i, t := range e.Trees {
		name := PartialFuncName(i)
		p, err := writeFile(dir, name, func(em *Emitter) {
			writeTree(em, t, name)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	p, err := writeFile(dir, EvaluateFuncName, func(em *Emitter) {
		writeCombiner(em, e, parallelLoops)
	})
	if err != nil {
		return paths, err
	}
	return append(paths, p), nil
}

func writeFile(dir, name string, write func(em *Emitter)) (string, error) {
	p := filepath.Join(dir, name+".cpp")
	f, err := os.Create(p)
	if err != nil {
		return "", errors.Wrapf(err, "writing %s", name)
	}
	defer f.Close()
	em := NewEmitter(f)
	write(em)
	if err = em.Flush(); err != nil {
		return "", errors.Wrapf(err, "writing %s to %s", name, p)
	}
	return p, f.Close()
}
