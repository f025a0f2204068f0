/*
Package yaml provides methods to parse feature.Features specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"os"

	"github.com/pbanos/forestc/feature"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadFeatures takes a slice of bytes with a feature specification in YML and
returns the features parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be the list of feature names in the order the ensemble indexes them.
*/
func ReadFeatures(md []byte) (feature.Features, error) {
	metadata := struct {
		Features []string `yaml:"features"`
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yml features")
	}
	if metadata.Features == nil {
		return nil, errors.New("metadata file has no feature information")
	}
	fs := feature.Features(metadata.Features)
	if err = fs.Validate(0); err != nil {
		return nil, errors.Wrap(err, "parsing yml features")
	}
	return fs, nil
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return the parsed features or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadFeaturesFromFile(filepath string) (feature.Features, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading features yml file %s", filepath)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		err = errors.Wrapf(err, "parsing features yml file %s", filepath)
	}
	return features, err
}

/*
WriteFeatures returns the YML document describing the given features,
which ReadFeatures parses back.
*/
func WriteFeatures(fs feature.Features) ([]byte, error) {
	metadata := struct {
		Features []string `yaml:"features"`
	}{fs}
	md, err := yaml.Marshal(&metadata)
	if err != nil {
		return nil, errors.Wrap(err, "encoding yml features")
	}
	return md, nil
}
