package main

import (
	"fmt"

	"github.com/pbanos/forestc/codegen"
	"github.com/pbanos/forestc/tree/json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateCmdConfig struct {
	*rootCmdConfig
	modelInput string
	dir        string
	noOpenMP   bool
}

func generateCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &generateCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the C++ sources for an ensemble",
		Long:  `Generate the C++ translation units for an ensemble read from a JSON file into a directory, without building them`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(exitInvalidFlags, err)
			}
			logger := config.Logger()
			defer logger.Sync()
			e, err := json.ReadEnsembleFromFile(config.modelInput)
			if err != nil {
				fail(exitModel, err)
			}
			paths, err := codegen.WriteDir(e, config.dir, !config.noOpenMP)
			if err != nil {
				fail(exitCode(err), err)
			}
			for _, p := range paths {
				logger.Debug("generated source", zap.String("path", p))
				fmt.Println(p)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "m", "", "path to a JSON file with the ensemble to generate code for (required)")
	cmd.PersistentFlags().StringVarP(&(config.dir), "dir", "d", "", "directory to write the sources to (required)")
	cmd.PersistentFlags().BoolVar(&(config.noOpenMP), "no-openmp", false, "generate without OpenMP parallel loops")
	return cmd
}

func (gcc *generateCmdConfig) Validate() error {
	if gcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	if gcc.dir == "" {
		return fmt.Errorf("required dir flag was not set")
	}
	return nil
}
