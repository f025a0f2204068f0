package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/pbanos/forestc/feature"
	"github.com/pbanos/forestc/feature/yaml"
	"github.com/pbanos/forestc/loader"
	"github.com/pbanos/forestc/sample/csv"
	"github.com/pbanos/forestc/tree"
	"github.com/pbanos/forestc/tree/json"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	libraryInput  string
	modelInput    string
	dataInput     string
	metadataInput string
	workers       int
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict values for samples with a built library",
		Long:  `Load a library built from an ensemble and print its prediction for every sample read from a CSV file, one per line`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(exitInvalidFlags, err)
			}
			defer config.Logger().Sync()
			e, features, err := config.model()
			if err != nil {
				fail(exitModel, err)
			}
			lib, err := loader.Open(config.libraryInput, e.NumFeatures())
			if err != nil {
				fail(exitToolchain, err)
			}
			defer lib.Close()
			out := bufio.NewWriter(os.Stdout)
			defer out.Flush()
			err = csv.ReadSamplesBySample(config.input(), features, e.NumFeatures(), func(i int, s []float32) (bool, error) {
				prediction, err := lib.Evaluate(s, config.workers)
				if err != nil {
					return false, fmt.Errorf("predicting sample %d: %v", i, err)
				}
				out.WriteString(strconv.FormatFloat(prediction, 'g', -1, 64))
				out.WriteByte('\n')
				return true, nil
			})
			if err != nil {
				out.Flush()
				fail(exitModel, err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.libraryInput), "library", "l", "", "path to a library built from the model (required)")
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "m", "", "path to the JSON file with the ensemble the library was built from (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to a CSV file with the samples, STDIN by default")
	cmd.PersistentFlags().StringVar(&(config.metadataInput), "metadata", "", "path to a YML file naming the features, read to map CSV columns by header; without it columns are read in order and the CSV has no header")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 1, "number of threads evaluating the trees of each sample")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.libraryInput == "" {
		return fmt.Errorf("required library flag was not set")
	}
	if pcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	if pcc.workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", pcc.workers)
	}
	return nil
}

func (pcc *predictCmdConfig) input() *os.File {
	if pcc.dataInput == "" {
		return os.Stdin
	}
	f, err := os.Open(pcc.dataInput)
	if err != nil {
		fail(exitModel, fmt.Errorf("reading samples: %v", err))
	}
	return f
}

// model reads the ensemble and, if given, the feature metadata.
func (pcc *predictCmdConfig) model() (*tree.Ensemble, feature.Features, error) {
	e, err := json.ReadEnsembleFromFile(pcc.modelInput)
	if err != nil {
		return nil, nil, err
	}
	if err = e.Validate(); err != nil {
		return nil, nil, err
	}
	if pcc.metadataInput == "" {
		return e, nil, nil
	}
	features, err := yaml.ReadFeaturesFromFile(pcc.metadataInput)
	if err != nil {
		return nil, nil, err
	}
	if err = features.Validate(e.NumFeatures()); err != nil {
		return nil, nil, fmt.Errorf("validating metadata %s: %v", pcc.metadataInput, err)
	}
	return e, features, nil
}
