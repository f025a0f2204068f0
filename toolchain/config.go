package toolchain

import (
	"io/ioutil"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

/*
Config holds the toolchain settings a user may override. Zero values
leave the decision to Resolve.

It can be read from a YAML document such as:

	compiler: /usr/bin/g++-13
	openmp: false
	compile_flags: [-fPIC, -O2]
	link_flags: [-fPIC, -O2]
	max_command_line: 8191
	temp_dir: /var/tmp/forestc
	keep_temp: true
*/
type Config struct {
	// Path or name of the C++ compiler, taking precedence over the
	// CXX environment variable and auto-detection
	Compiler string `yaml:"compiler"`
	// Forces OpenMP parallel loops on or off
	OpenMP *bool `yaml:"openmp"`
	// Replace the default optimization and code generation flags
	CompileFlags []string `yaml:"compile_flags"`
	LinkFlags    []string `yaml:"link_flags"`
	// Maximum length of a compiler command line before object lists
	// are passed through a response file, 0 for the platform default
	// and a negative value for no limit
	MaxCommandLine int `yaml:"max_command_line"`
	// Directory for intermediate files
	TempDir string `yaml:"temp_dir"`
	// Retain intermediate files for manual inspection and cleanup
	KeepTemp bool `yaml:"keep_temp"`
}

// ReadConfig takes a slice of bytes with a YAML toolchain
// configuration and returns the parsed Config or an error.
func ReadConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing toolchain configuration")
	}
	return cfg, nil
}

// ReadConfigFromFile reads the file at the given path and parses it
// with ReadConfig.
func ReadConfigFromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading toolchain configuration file %s", path)
	}
	cfg, err := ReadConfig(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}
