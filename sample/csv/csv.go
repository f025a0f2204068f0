/*
Package csv reads feature vectors to evaluate ensembles on from CSV
streams.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pbanos/forestc/feature"
	"github.com/pkg/errors"
)

// Undefined is the CSV value for a feature with no value, read as NaN.
const Undefined = "?"

/*
ReadSamples takes an io.Reader for a CSV stream, the features of an
ensemble (possibly nil) and the number of features it reads and
returns the feature vectors parsed from the reader or an error.

With features, the header or first row of the CSV content is expected
to name columns after them, in any order. A last column with an
unknown name (a label, for instance) is ignored. Without features the
stream has no header and columns are read in order.

Every vector has at least numFeatures values. The '?' string denotes
an undefined value, read as NaN, which no split condition holds for.
*/
func ReadSamples(reader io.Reader, features feature.Features, numFeatures int) ([][]float32, error) {
	samples := [][]float32{}
	err := ReadSamplesBySample(reader, features, numFeatures, func(_ int, s []float32) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

/*
ReadSamplesBySample works as ReadSamples but instead of returning the
vectors it calls the lambda function with each of them and its index.
If the lambda function returns true, it will continue processing the
next sample, otherwise it will stop.
*/
func ReadSamplesBySample(reader io.Reader, features feature.Features, numFeatures int, lambda func(int, []float32) (bool, error)) error {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var columns []int
	line := 1
	if features != nil {
		header, err := r.Read()
		if err != nil {
			return errors.Wrap(err, "reading header")
		}
		columns, err = parseColumnsFromCSVHeader(header, features, numFeatures)
		if err != nil {
			return err
		}
		line++
	}
	for i := 0; ; i++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading body")
		}
		sample, err := parseSampleFromCSVRow(row, columns, numFeatures)
		if err != nil {
			return errors.Wrapf(err, "parsing line %d", line+i)
		}
		ok, err := lambda(i, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadSamplesFromFilePath takes a filepath string, the features and
number of features of an ensemble, opens the file to which the
filepath points (os.Stdin if it is "") and uses ReadSamples to return
the vectors read from it or an error.
*/
func ReadSamplesFromFilePath(filepath string, features feature.Features, numFeatures int) ([][]float32, error) {
	f := os.Stdin
	if filepath != "" {
		var err error
		f, err = os.Open(filepath)
		if err != nil {
			return nil, errors.Wrap(err, "reading samples")
		}
		defer f.Close()
	}
	samples, err := ReadSamples(f, features, numFeatures)
	if err != nil {
		err = errors.Wrapf(err, "parsing CSV file %s", filepath)
	}
	return samples, err
}

// parseColumnsFromCSVHeader returns, for every column, the index of
// its feature in the vector, or -1 for an ignored column.
func parseColumnsFromCSVHeader(header []string, features feature.Features, numFeatures int) ([]int, error) {
	columns := make([]int, len(header))
	found := make([]bool, len(features))
	for i, name := range header {
		fi, ok := features.Index(name)
		if !ok {
			if i != len(header)-1 {
				return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
			}
			columns[i] = -1
			continue
		}
		columns[i] = fi
		found[fi] = true
	}
	for fi := 0; fi < numFeatures && fi < len(features); fi++ {
		if !found[fi] {
			return nil, fmt.Errorf("parsing header: missing column for feature %s", features[fi])
		}
	}
	return columns, nil
}

func parseSampleFromCSVRow(row []string, columns []int, numFeatures int) ([]float32, error) {
	size := numFeatures
	if columns == nil && len(row) > size {
		size = len(row)
	}
	for _, fi := range columns {
		if fi >= size {
			size = fi + 1
		}
	}
	sample := make([]float32, size)
	if columns == nil && len(row) < numFeatures {
		return nil, fmt.Errorf("%d values, expected at least %d", len(row), numFeatures)
	}
	if columns != nil && len(row) != len(columns) {
		return nil, fmt.Errorf("%d values, expected %d", len(row), len(columns))
	}
	for i, v := range row {
		fi := i
		if columns != nil {
			fi = columns[i]
			if fi < 0 {
				continue
			}
		}
		value, err := parseValue(v)
		if err != nil {
			return nil, err
		}
		sample[fi] = value
	}
	return sample, nil
}

func parseValue(v string) (float32, error) {
	if v == Undefined {
		return float32(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("converting %s to float32: %v", v, err)
	}
	return float32(f), nil
}
