package forestc

import (
	"github.com/pbanos/forestc/build"
	"github.com/pbanos/forestc/toolchain"
	"github.com/pbanos/forestc/tree"
	"github.com/pkg/errors"
)

// IsConfigError returns whether err is or wraps a
// *toolchain.ConfigError, meaning no usable compiler was found.
func IsConfigError(err error) bool {
	var cerr *toolchain.ConfigError
	return errors.As(err, &cerr)
}

// IsGenerationError returns whether err is or wraps a
// *tree.GenerationError, meaning the ensemble is malformed.
func IsGenerationError(err error) bool {
	var gerr *tree.GenerationError
	return errors.As(err, &gerr)
}

// IsToolchainError returns whether err is or wraps a
// *build.ToolchainError, meaning the compiler failed.
func IsToolchainError(err error) bool {
	var terr *build.ToolchainError
	return errors.As(err, &terr)
}
