package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/forestc/build"
	"github.com/pbanos/forestc/toolchain"
	"github.com/pbanos/forestc/tree"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCmdConfigValidate(t *testing.T) {
	config := &buildCmdConfig{modelInput: "model.json", output: "model.so", jobs: 2}
	assert.NoError(t, config.Validate())
	config.jobs = 0
	assert.Error(t, config.Validate())
	config = &buildCmdConfig{output: "model.so", jobs: 2}
	assert.Error(t, config.Validate())
}

func TestToolchainFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolchain.yml")
	require.NoError(t, os.WriteFile(path, []byte("compiler: g++\nopenmp: true\ntemp_dir: /tmp/a\n"), 0o644))
	tf := &toolchainFlags{configInput: path, compiler: "clang++", noOpenMP: true}
	cfg, err := tf.config()
	require.NoError(t, err)
	assert.Equal(t, "clang++", cfg.Compiler)
	require.NotNil(t, cfg.OpenMP)
	assert.False(t, *cfg.OpenMP)
	assert.Equal(t, "/tmp/a", cfg.TempDir)
	assert.False(t, cfg.KeepTemp)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitConfig, exitCode(&toolchain.ConfigError{Reason: "no compiler"}))
	assert.Equal(t, exitModel, exitCode(errors.Wrap(&tree.GenerationError{Tree: 0, Node: 1, Reason: "bad"}, "generating sources")))
	assert.Equal(t, exitToolchain, exitCode(&build.ToolchainError{Stage: "linking", Err: errors.New("exit status 1")}))
	assert.Equal(t, exitFailure, exitCode(errors.Wrap(context.Canceled, "compiling evaluate_partial_0")))
	assert.Equal(t, exitFailure, exitCode(errors.New("linking: creating temporary file: permission denied")))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, withinTolerance(1, 1, 0))
	assert.True(t, withinTolerance(1000, 1000.0000001, 1e-9))
	assert.False(t, withinTolerance(1000, 1000.01, 1e-9))
	assert.True(t, withinTolerance(0, 1e-10, 1e-9))
}

func TestCommandsAreRegistered(t *testing.T) {
	root := cliParser()
	for _, name := range []string{"build", "generate", "predict", "verify", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
