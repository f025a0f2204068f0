package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootCmdConfig struct {
	verbose bool
	logger  *zap.Logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forestc",
		Short: "forestc compiles decision tree ensembles into native code",
		Long:  `A tool to turn trained decision tree ensembles into shared libraries that evaluate them, and to use those libraries to make predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log every step of the pipeline")
	rootCmd.AddCommand(versionCmd(), buildCmd(config), generateCmd(config), predictCmd(config), verifyCmd(config))
	return rootCmd
}

// Logger returns the logger for the command, built on first use.
func (rcc *rootCmdConfig) Logger() *zap.Logger {
	if rcc.logger == nil {
		rcc.logger = newLogger(rcc.verbose)
	}
	return rcc.logger
}
