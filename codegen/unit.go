package codegen

import (
	"os"

	"github.com/pbanos/forestc/tempfile"
	"github.com/pkg/errors"
)

// SourcePattern is the name pattern of generated source files.
const SourcePattern = "compiledtrees_*.cpp"

/*
SourceUnit is a generated translation unit: a temporary C++ source
file defining a single C-linkage symbol. It is meant to be compiled
once and then discarded.
*/
type SourceUnit struct {
	*tempfile.File
	name string
}

// Name returns the symbol defined by the unit.
func (u *SourceUnit) Name() string {
	return u.name
}

// Contents reads the generated source back from disk.
func (u *SourceUnit) Contents() ([]byte, error) {
	data, err := os.ReadFile(u.Path())
	if err != nil {
		return nil, errors.Wrapf(err, "reading source for %s", u.name)
	}
	return data, nil
}

func (g *Generator) newUnit(name string, write func(e *Emitter)) (*SourceUnit, error) {
	f, err := tempfile.Create(g.Dir, SourcePattern, g.DeleteOnClose)
	if err != nil {
		return nil, errors.Wrapf(err, "generating %s", name)
	}
	e := NewEmitter(f)
	write(e)
	if err = e.Flush(); err != nil {
		f.Remove()
		return nil, errors.Wrapf(err, "writing %s to %s", name, f.Path())
	}
	return &SourceUnit{File: f, name: name}, nil
}
