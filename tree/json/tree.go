/*
Package json reads and writes tree ensembles as JSON documents.

An ensemble is serialized as a JSON object with the following fields:
  - "trees": an array of trees, each an object holding the parallel node
    arrays "children_left", "children_right", "feature", "threshold" and
    "value" (see tree.Tree)
  - "weight": the weight shared by every tree
  - "weights": optional array with one weight per tree, overriding "weight"
  - "initial_value": the value the weighted tree outputs are added to

Entries of "value" may be numbers or arrays holding exactly one number,
which is how scikit-learn exports the per-node values of single-output
regressors.
*/
package json

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pbanos/forestc/tree"
	"github.com/pkg/errors"
)

type jsonEnsemble struct {
	Trees        []*jsonTree `json:"trees"`
	Weight       *float64    `json:"weight,omitempty"`
	Weights      []float64   `json:"weights,omitempty"`
	InitialValue float64     `json:"initial_value"`
}

type jsonTree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []scalar  `json:"value"`
}

/*
ReadEnsemble takes an io.Reader and decodes a JSON ensemble from it.
An error is returned if the JSON cannot be read from the reader or
does not describe an ensemble, including when it has neither "weight"
nor "weights". The returned ensemble is not validated.
*/
func ReadEnsemble(r io.Reader) (*tree.Ensemble, error) {
	dec := json.NewDecoder(r)
	je := &jsonEnsemble{}
	err := dec.Decode(je)
	if err != nil {
		return nil, errors.Wrap(err, "decoding ensemble")
	}
	if je.Weight == nil && je.Weights == nil {
		return nil, errors.New("decoding ensemble: neither weight nor weights is set")
	}
	e := &tree.Ensemble{
		Trees:        make([]*tree.Tree, 0, len(je.Trees)),
		Weights:      je.Weights,
		InitialValue: je.InitialValue,
	}
	if je.Weight != nil {
		e.Weight = *je.Weight
	}
	for i, jt := range je.Trees {
		if jt == nil {
			return nil, errors.Errorf("decoding ensemble: tree %d is null", i)
		}
		values := make([]float64, len(jt.Value))
		for j, v := range jt.Value {
			values[j] = float64(v)
		}
		e.Trees = append(e.Trees, &tree.Tree{
			ChildrenLeft:  jt.ChildrenLeft,
			ChildrenRight: jt.ChildrenRight,
			Feature:       jt.Feature,
			Threshold:     jt.Threshold,
			Value:         values,
		})
	}
	return e, nil
}

/*
ReadEnsembleFromFile takes a filepath string, opens the file and uses
ReadEnsemble to decode and return an ensemble from it.
*/
func ReadEnsembleFromFile(filepath string) (*tree.Ensemble, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading ensemble in JSON from %s", filepath)
	}
	defer f.Close()
	e, err := ReadEnsemble(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing ensemble in JSON from %s", filepath)
	}
	return e, nil
}

// WriteEnsemble serializes the given ensemble as JSON onto the
// io.Writer.
func WriteEnsemble(w io.Writer, e *tree.Ensemble) error {
	je := &jsonEnsemble{
		Trees:        make([]*jsonTree, 0, len(e.Trees)),
		Weights:      e.Weights,
		InitialValue: e.InitialValue,
	}
	if e.Weights == nil {
		weight := e.Weight
		je.Weight = &weight
	}
	for _, t := range e.Trees {
		values := make([]scalar, len(t.Value))
		for i, v := range t.Value {
			values[i] = scalar(v)
		}
		je.Trees = append(je.Trees, &jsonTree{
			ChildrenLeft:  t.ChildrenLeft,
			ChildrenRight: t.ChildrenRight,
			Feature:       t.Feature,
			Threshold:     t.Threshold,
			Value:         values,
		})
	}
	return errors.Wrap(json.NewEncoder(w).Encode(je), "encoding ensemble")
}
