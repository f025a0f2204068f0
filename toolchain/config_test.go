package toolchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig([]byte(`
compiler: /usr/bin/g++-13
openmp: false
compile_flags: [-fPIC, -O2]
max_command_line: 4096
keep_temp: true
`))
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/g++-13", cfg.Compiler)
	require.NotNil(t, cfg.OpenMP)
	assert.False(t, *cfg.OpenMP)
	assert.Equal(t, []string{"-fPIC", "-O2"}, cfg.CompileFlags)
	assert.Nil(t, cfg.LinkFlags)
	assert.Equal(t, 4096, cfg.MaxCommandLine)
	assert.True(t, cfg.KeepTemp)
}

func TestReadConfigLeavesUnsetOpenMP(t *testing.T) {
	cfg, err := ReadConfig([]byte("compiler: c++\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.OpenMP)
}

func TestReadConfigRejectsUnknownKeys(t *testing.T) {
	_, err := ReadConfig([]byte("compilr: c++\n"))
	assert.Error(t, err)
}

func TestReadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolchain.yml")
	require.NoError(t, os.WriteFile(path, []byte("temp_dir: /tmp/x\n"), 0o644))
	cfg, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", cfg.TempDir)

	_, err = ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
