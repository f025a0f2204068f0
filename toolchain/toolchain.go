/*
Package toolchain resolves the C++ compiler used to build ensembles
and the platform capabilities the rest of the pipeline depends on:
OpenMP parallel loops, the deletion policy for intermediate files
and the command line length limit. Everything is decided once, by
Resolve, and exposed through a Toolchain.
*/
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

const (
	// WindowsMaxCommandLine is the command line length limit of
	// cmd.exe.
	WindowsMaxCommandLine = 8191
	openMPFlag            = "-fopenmp"
)

var (
	// DefaultCompileFlags produce optimized position-independent
	// object files.
	DefaultCompileFlags = []string{"-fPIC", "-O3", "-pipe"}
	// DefaultLinkFlags link optimized shared libraries with
	// link-time optimization.
	DefaultLinkFlags = []string{"-fPIC", "-flto", "-O3", "-pipe"}

	defaultCompilers = []string{"c++", "g++", "clang++"}
)

// Capabilities are the platform decisions code generation and the
// build depend on.
type Capabilities interface {
	// ParallelLoops returns whether OpenMP parallel loops can be
	// compiled.
	ParallelLoops() bool
	// DeleteOnClose returns whether temporary files can be removed
	// when their handle is closed. If not, they are closed first
	// and removed explicitly once no longer needed.
	DeleteOnClose() bool
}

/*
Toolchain is a resolved C++ compiler along with the flags and
platform capabilities to build shared libraries with it.
*/
type Toolchain struct {
	// Path to the compiler executable
	Compiler       string
	CompileFlags   []string
	LinkFlags      []string
	MaxCommandLine int
	TempDir        string
	KeepTemp       bool
	parallelLoops  bool
	deleteOnClose  bool
}

// New returns a Toolchain for the given compiler path with the
// default flags and the given capabilities, skipping resolution.
func New(compiler string, parallelLoops, deleteOnClose bool) *Toolchain {
	return &Toolchain{
		Compiler:      compiler,
		CompileFlags:  DefaultCompileFlags,
		LinkFlags:     DefaultLinkFlags,
		parallelLoops: parallelLoops,
		deleteOnClose: deleteOnClose,
	}
}

// ParallelLoops implements Capabilities.
func (tc *Toolchain) ParallelLoops() bool {
	return tc.parallelLoops
}

// DeleteOnClose implements Capabilities.
func (tc *Toolchain) DeleteOnClose() bool {
	return tc.deleteOnClose
}

// TempDeleteOnClose returns the deletion policy for the temporary
// files of a build: delete-on-close when the platform allows it
// and files are not to be kept.
func (tc *Toolchain) TempDeleteOnClose() bool {
	return tc.deleteOnClose && !tc.KeepTemp
}

// CompileArgs returns the compiler arguments to compile the source
// file at src into the object file at obj.
func (tc *Toolchain) CompileArgs(src, obj string) []string {
	args := []string{src, "-c"}
	args = append(args, tc.CompileFlags...)
	if tc.parallelLoops {
		args = append(args, openMPFlag)
	}
	return append(args, "-o", obj)
}

// LinkArgs returns the compiler arguments to link the given inputs,
// object files or @response files, into the shared library at out.
func (tc *Toolchain) LinkArgs(inputs []string, out string) []string {
	args := append([]string{"-shared"}, inputs...)
	args = append(args, tc.LinkFlags...)
	if tc.parallelLoops {
		args = append(args, openMPFlag)
	}
	return append(args, "-o", out)
}

// CommandLineLength returns the length of the command line running
// the compiler with the given arguments.
func (tc *Toolchain) CommandLineLength(args []string) int {
	l := len(tc.Compiler)
	for _, a := range args {
		l += len(a) + 1
	}
	return l
}

// ExceedsCommandLine returns whether running the compiler with the
// given arguments goes over the platform's command line limit.
func (tc *Toolchain) ExceedsCommandLine(args []string) bool {
	return tc.MaxCommandLine > 0 && tc.CommandLineLength(args) > tc.MaxCommandLine
}

// Fingerprint identifies the compiler and settings that determine
// the contents of the libraries the toolchain builds.
func (tc *Toolchain) Fingerprint() string {
	return fmt.Sprintf("compiler=%s;compile=%s;link=%s;openmp=%t",
		tc.Compiler,
		strings.Join(tc.CompileFlags, " "),
		strings.Join(tc.LinkFlags, " "),
		tc.parallelLoops)
}

func (tc *Toolchain) String() string {
	return fmt.Sprintf("{Toolchain %s openmp:%t delete-on-close:%t}", tc.Compiler, tc.parallelLoops, tc.deleteOnClose)
}

// platform gathers the host facts resolution depends on.
type platform struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
	version  func(ctx context.Context, compiler string) (string, error)
}

var host = platform{
	goos:     runtime.GOOS,
	getenv:   os.Getenv,
	lookPath: exec.LookPath,
	version:  compilerVersion,
}

/*
Resolve takes a context and a Config and returns the Toolchain to
build with on this host, or a *ConfigError if no usable compiler
can be found.

The compiler is the one in the config if any, otherwise the one in
the CXX environment variable, otherwise the first of c++, g++ and
clang++ found on the PATH (Windows requires one to be set).
OpenMP is supported unless disabled in the config or the compiler
is clang on macOS. Temporary files are deleted on close except on
Windows.
*/
func Resolve(ctx context.Context, cfg Config) (*Toolchain, error) {
	return resolve(ctx, cfg, host)
}

func resolve(ctx context.Context, cfg Config, p platform) (*Toolchain, error) {
	compiler, err := p.resolveCompiler(cfg.Compiler)
	if err != nil {
		return nil, err
	}
	tc := &Toolchain{
		Compiler:       compiler,
		CompileFlags:   DefaultCompileFlags,
		LinkFlags:      DefaultLinkFlags,
		MaxCommandLine: cfg.MaxCommandLine,
		TempDir:        cfg.TempDir,
		KeepTemp:       cfg.KeepTemp,
		deleteOnClose:  p.goos != "windows",
	}
	if cfg.CompileFlags != nil {
		tc.CompileFlags = cfg.CompileFlags
	}
	if cfg.LinkFlags != nil {
		tc.LinkFlags = cfg.LinkFlags
	}
	if tc.MaxCommandLine == 0 && p.goos == "windows" {
		tc.MaxCommandLine = WindowsMaxCommandLine
	}
	if cfg.OpenMP != nil {
		tc.parallelLoops = *cfg.OpenMP
		return tc, nil
	}
	tc.parallelLoops = true
	if p.goos == "darwin" {
		v, err := p.version(ctx, compiler)
		if err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("querying the version of C++ compiler %s", compiler), Err: err}
		}
		// Apple's clang ships without OpenMP
		tc.parallelLoops = !strings.Contains(v, "clang")
	}
	return tc, nil
}

func (p platform) resolveCompiler(explicit string) (string, error) {
	candidate := explicit
	if candidate == "" {
		candidate = p.getenv("CXX")
	}
	if candidate != "" {
		path, err := p.lookPath(candidate)
		if err != nil {
			return "", &ConfigError{Reason: fmt.Sprintf("C++ compiler %s was not found", candidate), Err: err}
		}
		return path, nil
	}
	if p.goos != "windows" {
		for _, c := range defaultCompilers {
			if path, err := p.lookPath(c); err == nil {
				return path, nil
			}
		}
	}
	return "", &ConfigError{Reason: "C++ compiler was not found, set the CXX environment variable or the compiler option"}
}

func compilerVersion(ctx context.Context, compiler string) (string, error) {
	out, err := Command(ctx, compiler, "--version").Output()
	if err != nil {
		return "", errors.Wrapf(err, "running %s --version", compiler)
	}
	return string(out), nil
}
