package main

import (
	"fmt"
	"math"
	"runtime"

	"github.com/pbanos/forestc/loader"
	"github.com/pbanos/forestc/sample/csv"
	"github.com/pbanos/forestc/tree"
	"github.com/spf13/cobra"
	"github.com/unixpickle/essentials"
	"go.uber.org/zap"
)

type verifyCmdConfig struct {
	predictCmdConfig
	tolerance float64
	jobs      int
}

func verifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &verifyCmdConfig{predictCmdConfig: predictCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a built library against its model",
		Long:  `Evaluate every sample read from a CSV file with a built library and by walking the trees of the model it was built from, and report the samples on which they disagree`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(exitInvalidFlags, err)
			}
			logger := config.Logger()
			defer logger.Sync()
			e, features, err := config.model()
			if err != nil {
				fail(exitModel, err)
			}
			samples, err := csv.ReadSamples(config.input(), features, e.NumFeatures())
			if err != nil {
				fail(exitModel, err)
			}
			lib, err := loader.Open(config.libraryInput, e.NumFeatures())
			if err != nil {
				fail(exitToolchain, err)
			}
			defer lib.Close()
			expected := tree.EvaluateBatch(e, samples, config.jobs)
			actual := make([]float64, len(samples))
			errs := make([]error, len(samples))
			essentials.ConcurrentMap(config.jobs, len(samples), func(i int) {
				actual[i], errs[i] = lib.Evaluate(samples[i], config.workers)
			})
			mismatches := 0
			for i := range samples {
				if errs[i] != nil {
					fail(exitToolchain, fmt.Errorf("evaluating sample %d: %v", i, errs[i]))
				}
				if !withinTolerance(actual[i], expected[i], config.tolerance) {
					mismatches++
					fmt.Printf("sample %d: library predicted %v, model predicts %v\n", i, actual[i], expected[i])
				}
			}
			logger.Info("verified library", zap.Int("samples", len(samples)), zap.Int("mismatches", mismatches))
			if mismatches > 0 {
				fail(exitMismatch, fmt.Errorf("%d of %d samples mismatch", mismatches, len(samples)))
			}
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&(config.libraryInput), "library", "l", "", "path to the library to verify (required)")
	flags.StringVarP(&(config.modelInput), "model", "m", "", "path to the JSON file with the ensemble the library was built from (required)")
	flags.StringVarP(&(config.dataInput), "input", "i", "", "path to a CSV file with the samples, STDIN by default")
	flags.StringVar(&(config.metadataInput), "metadata", "", "path to a YML file naming the features, read to map CSV columns by header")
	flags.IntVarP(&(config.workers), "workers", "w", 1, "number of threads evaluating the trees of each sample")
	flags.IntVarP(&(config.jobs), "jobs", "j", runtime.NumCPU(), "number of samples evaluated at a time")
	flags.Float64Var(&(config.tolerance), "tolerance", 1e-9, "maximum relative difference between predictions")
	return cmd
}

func (vcc *verifyCmdConfig) Validate() error {
	if err := vcc.predictCmdConfig.Validate(); err != nil {
		return err
	}
	if vcc.jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", vcc.jobs)
	}
	if vcc.tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %v", vcc.tolerance)
	}
	return nil
}

// withinTolerance compares a and b relative to the magnitude of b,
// or absolutely when it is below 1.
func withinTolerance(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b))
}
