package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/oshokin/zircon-gn/internal/config"
	"github.com/oshokin/zircon-gn/internal/domain/buildfile"
	"github.com/oshokin/zircon-gn/internal/domain/descriptor"
	"github.com/oshokin/zircon-gn/internal/logger"
	"github.com/oshokin/zircon-gn/internal/render"
	filerepo "github.com/oshokin/zircon-gn/internal/repository/buildfile"
	"github.com/oshokin/zircon-gn/internal/service/packaging"
)

// scratchDirSuffix names the temporary directory the packaging build exports into.
const scratchDirSuffix = "-zircon-packages"

var (
	// errOutputDirNotSet is returned when no output directory is given.
	errOutputDirNotSet = errors.New("output directory is not set")
	// errZirconBuildNotSet is returned when no Zircon build directory is given.
	errZirconBuildNotSet = errors.New("zircon build directory is not set")
)

// Options contains inputs for the generator entry point.
type Options struct {
	// Config holds the generator settings; nil means config.Default.
	Config *config.Config
	// OutputDir is wiped and receives the generated build files.
	OutputDir string
	// ZirconBuildDir replaces the BUILD marker of descriptor paths.
	ZirconBuildDir string
	// Debug keeps the scratch directory and lets the packaging build print everything.
	Debug bool
	// Runner overrides the shell runner built from Config.BuildCommand.
	Runner packaging.Runner
}

// Run executes a complete generation.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "zircon-gn")

	p, err := prepare(opts)
	if err != nil {
		return err
	}

	marker, err := AcquireMarker(ctx, p.outDir)
	if err != nil {
		return err
	}

	defer marker.Release(ctx)

	logger.InfoKV(ctx, "Resetting output directory", "path", p.outDir)

	if err = p.gen.Repository.Reset(ctx); err != nil {
		return err
	}

	pkgs, err := exportPackages(ctx, p.runner, p.gen.SourceBase, opts.Debug)
	if err != nil {
		return err
	}

	if err = p.gen.Generate(ctx, pkgs); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Build files generated", "path", p.outDir, "packages", len(pkgs))

	return nil
}

// plan is a validated generation request.
type plan struct {
	gen    *Context
	runner packaging.Runner
	outDir string
}

// prepare validates the options and builds the generation context.
func prepare(opts *Options) (*plan, error) {
	if opts.OutputDir == "" {
		return nil, errOutputDirNotSet
	}

	if opts.ZirconBuildDir == "" {
		return nil, errZirconBuildNotSet
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	cfg, err := cfg.Absolute()
	if err != nil {
		return nil, err
	}

	outDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}

	buildBase, err := filepath.Abs(opts.ZirconBuildDir)
	if err != nil {
		return nil, fmt.Errorf("resolve zircon build directory: %w", err)
	}

	renderer, err := render.New(cfg.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	runner := opts.Runner
	if runner == nil {
		if runner, err = packaging.NewShellRunner(cfg.BuildCommand); err != nil {
			return nil, err
		}
	}

	gen := &Context{
		ProjectRoot:   cfg.ProjectRoot,
		SourceBase:    cfg.ZirconRoot,
		BuildBase:     buildBase,
		BuildFileName: cfg.BuildFileName,
		Policy:        buildfile.NewSysrootPolicy(cfg.Sysroot.Package, cfg.Sysroot.Packages),
		Renderer:      renderer,
		Repository:    filerepo.NewFileRepository(outDir),
	}

	return &plan{gen: gen, runner: runner, outDir: outDir}, nil
}

// exportPackages runs the packaging build in a scratch directory and parses every exported descriptor.
func exportPackages(
	ctx context.Context,
	runner packaging.Runner,
	zirconRoot string,
	debug bool,
) ([]*descriptor.Package, error) {
	scratch, err := os.MkdirTemp("", "*"+scratchDirSuffix)
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	if debug {
		logger.InfoKV(ctx, "Building Zircon", "build_dir", scratch)
	} else {
		defer func() {
			if err := os.RemoveAll(scratch); err != nil {
				logger.WarnKV(ctx, "Unable to remove scratch directory", "path", scratch, "error", err)
			}
		}()
	}

	req := packaging.Request{
		Dir:      zirconRoot,
		BuildDir: scratch,
		Verbose:  debug,
	}

	if err = runner.Run(ctx, req); err != nil {
		return nil, err
	}

	names, err := descriptor.ReadManifest(packaging.ManifestPath(scratch))
	if err != nil {
		return nil, err
	}

	pkgs := make([]*descriptor.Package, 0, len(names))

	for _, name := range names {
		pkg, err := descriptor.ParseFile(filepath.Join(packaging.ExportDir(scratch), name))
		if err != nil {
			return nil, err
		}

		pkgs = append(pkgs, pkg)
	}

	if debug {
		logPackageNames(ctx, pkgs)
	}

	return pkgs, nil
}

func logPackageNames(ctx context.Context, pkgs []*descriptor.Package) {
	names := make([]string, 0, len(pkgs))

	for _, pkg := range pkgs {
		if info, err := pkg.Info(); err == nil {
			names = append(names, info.Name)
		}
	}

	slices.Sort(names)

	logger.Infof(ctx, "Found %d packages", len(pkgs))

	for _, name := range names {
		logger.Infof(ctx, " - %s", name)
	}
}
