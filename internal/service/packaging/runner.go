package packaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/oshokin/zircon-gn/internal/logger"
)

const (
	// ExportDirName is the directory of BUILDDIR holding the exported descriptors.
	ExportDirName = "export"
	// ManifestFilename lists the descriptor files inside the export directory.
	ManifestFilename = "manifest"
)

// ErrBuildFailed is returned when the packaging build exits with a non-zero status.
var ErrBuildFailed = errors.New("packaging build failed")

// Request describes one packaging build invocation.
type Request struct {
	// Dir is the working directory of the build, the Zircon source tree.
	Dir string
	// BuildDir is the scratch directory exported to the build as BUILDDIR.
	BuildDir string
	// Verbose lets the build print its full output instead of running with QUIET=1.
	Verbose bool
}

// Runner runs the packaging build synchronously.
type Runner interface {
	Run(ctx context.Context, req Request) error
}

// ExportDir returns the directory holding the descriptors produced in buildDir.
func ExportDir(buildDir string) string {
	return filepath.Join(buildDir, ExportDirName)
}

// ManifestPath returns the manifest location produced in buildDir.
func ManifestPath(buildDir string) string {
	return filepath.Join(ExportDir(buildDir), ManifestFilename)
}

// ShellRunner interprets a shell command line with mvdan.cc/sh.
type ShellRunner struct {
	command string
	program *syntax.File
	environ []string
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures a ShellRunner.
type Option func(*ShellRunner)

// WithOutput redirects the build output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *ShellRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnviron replaces the inherited process environment.
func WithEnviron(environ []string) Option {
	return func(r *ShellRunner) {
		r.environ = environ
	}
}

// NewShellRunner parses command and returns a runner for it.
func NewShellRunner(command string, opts ...Option) (*ShellRunner, error) {
	program, err := syntax.NewParser().Parse(strings.NewReader(command), "build_command")
	if err != nil {
		return nil, fmt.Errorf("parse build command %q: %w", command, err)
	}

	r := &ShellRunner{
		command: command,
		program: program,
		environ: os.Environ(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run executes the build command for req.
func (r *ShellRunner) Run(ctx context.Context, req Request) error {
	env := make([]string, 0, len(r.environ)+2)
	env = append(env, r.environ...)
	env = append(env, "BUILDDIR="+req.BuildDir)

	if !req.Verbose {
		env = append(env, "QUIET=1")
	}

	runner, err := interp.New(
		interp.Dir(req.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, r.stdout, r.stderr),
	)
	if err != nil {
		return fmt.Errorf("create shell interpreter: %w", err)
	}

	logger.DebugKV(ctx, "Running packaging build", "command", r.command, "dir", req.Dir, "build_dir", req.BuildDir)

	if err = runner.Run(ctx, r.program); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return fmt.Errorf("%w: %q exited with status %d", ErrBuildFailed, r.command, uint8(status))
		}

		return fmt.Errorf("run build command %q: %w", r.command, err)
	}

	return nil
}
