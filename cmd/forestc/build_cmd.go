package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/pbanos/forestc"
	"github.com/pbanos/forestc/cache"
	"github.com/pbanos/forestc/toolchain"
	"github.com/pbanos/forestc/tree/json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	exitInvalidFlags = 1 + iota
	exitConfig
	exitModel
	exitToolchain
	exitCache
	exitMismatch
	exitFailure
)

type toolchainFlags struct {
	compiler    string
	configInput string
	noOpenMP    bool
	keepTemp    bool
	tempDir     string
}

type buildCmdConfig struct {
	*rootCmdConfig
	toolchainFlags
	modelInput string
	output     string
	jobs       int
	cacheURL   string
}

func buildCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &buildCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an ensemble into a shared library",
		Long:  `Generate C++ code for every tree of an ensemble read from a JSON file, compile it and link it into a shared library exposing double evaluate(float* f, int worker_count)`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(exitInvalidFlags, err)
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			logger := config.Logger()
			defer logger.Sync()
			tc, err := config.toolchain(ctx)
			if err != nil {
				fail(exitConfig, err)
			}
			logger.Debug("resolved toolchain", zap.Stringer("toolchain", tc))
			e, err := json.ReadEnsembleFromFile(config.modelInput)
			if err != nil {
				fail(exitModel, err)
			}
			c := forestc.New(tc, logger)
			c.Workers = config.jobs
			if config.cacheURL != "" {
				c.Cache, err = cache.Open(ctx, config.cacheURL)
				if err != nil {
					fail(exitCache, err)
				}
				defer c.Cache.Close(ctx)
			}
			lib, err := c.Compile(ctx, e, config.output)
			if err != nil {
				fail(exitCode(err), err)
			}
			fmt.Println(lib.Path)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "m", "", "path to a JSON file with the ensemble to build (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to write the shared library to (required)")
	cmd.PersistentFlags().IntVarP(&(config.jobs), "jobs", "j", runtime.NumCPU(), "maximum number of compiler processes to run at a time")
	cmd.PersistentFlags().StringVar(&(config.cacheURL), "cache", "", "URL of a cache of built libraries (memory:, redis://..., postgres://..., sqlite3://... or a .db file)")
	config.toolchainFlags.register(cmd)
	return cmd
}

func (bcc *buildCmdConfig) Validate() error {
	if bcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	if bcc.output == "" {
		return fmt.Errorf("required output flag was not set")
	}
	if bcc.jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", bcc.jobs)
	}
	return nil
}

func (tf *toolchainFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&(tf.compiler), "compiler", "", "C++ compiler to build with, overriding the CXX environment variable")
	cmd.PersistentFlags().StringVarP(&(tf.configInput), "config", "c", "", "path to a YML file with the toolchain configuration")
	cmd.PersistentFlags().BoolVar(&(tf.noOpenMP), "no-openmp", false, "generate and build without OpenMP parallel loops")
	cmd.PersistentFlags().BoolVar(&(tf.keepTemp), "keep-temp", false, "keep the generated sources and objects for inspection")
	cmd.PersistentFlags().StringVar(&(tf.tempDir), "temp-dir", "", "directory for the intermediate files, the system temporary directory by default")
}

// config returns the toolchain configuration from the config file,
// if any, with the flags set on top.
func (tf *toolchainFlags) config() (toolchain.Config, error) {
	cfg := toolchain.Config{}
	if tf.configInput != "" {
		fcfg, err := toolchain.ReadConfigFromFile(tf.configInput)
		if err != nil {
			return cfg, err
		}
		cfg = *fcfg
	}
	if tf.compiler != "" {
		cfg.Compiler = tf.compiler
	}
	if tf.noOpenMP {
		openMP := false
		cfg.OpenMP = &openMP
	}
	if tf.keepTemp {
		cfg.KeepTemp = true
	}
	if tf.tempDir != "" {
		cfg.TempDir = tf.tempDir
	}
	return cfg, nil
}

func (tf *toolchainFlags) toolchain(ctx context.Context) (*toolchain.Toolchain, error) {
	cfg, err := tf.config()
	if err != nil {
		return nil, err
	}
	return toolchain.Resolve(ctx, cfg)
}

func exitCode(err error) int {
	switch {
	case forestc.IsConfigError(err):
		return exitConfig
	case forestc.IsGenerationError(err):
		return exitModel
	case forestc.IsToolchainError(err):
		return exitToolchain
	}
	return exitFailure
}
