package generator

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/oshokin/zircon-gn/internal/domain/buildfile"
	"github.com/oshokin/zircon-gn/internal/domain/descriptor"
	"github.com/oshokin/zircon-gn/internal/render"
)

const (
	// libDir holds one directory per generated library.
	libDir = "lib"
	// sysrootDir holds the sysroot build file.
	sysrootDir = "sysroot"
	// sysrootIncludeDir is where sysroot headers are installed.
	sysrootIncludeDir = "include"
	// debugMarker identifies the unstripped flavour of a shared library.
	debugMarker = "/debug/"
)

// ErrLibraryShape is returned when a precompiled library lists neither one nor two artifacts.
var ErrLibraryShape = errors.New("unexpected number of library files")

// BuildSourceLibrary builds the record of a library distributed as sources.
func (c *Context) BuildSourceLibrary(pkg *descriptor.Package, name string) (*buildfile.SourceLibrary, error) {
	lib := buildfile.NewSourceLibrary(name)

	for _, entry := range pkg.Entries(descriptor.SectionIncludes) {
		file, folder, err := c.ExtractFile(entry.Key, entry.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		lib.Sources = append(lib.Sources, buildfile.Label(file))

		if folder != "" {
			lib.IncludeDirs.Add(buildfile.Label(folder))
		}
	}

	for _, entry := range pkg.Entries(descriptor.SectionSources) {
		file, _, err := c.ExtractFile(entry.Key, entry.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		lib.Sources = append(lib.Sources, buildfile.Label(file))
	}

	lib.Deps = append(lib.Deps, c.Policy.FilterDeps(pkg.List(descriptor.SectionDeps))...)
	lib.Deps = append(lib.Deps, c.Policy.FilterDeps(pkg.List(descriptor.SectionStaticDeps))...)

	return lib, nil
}

// BuildCompiledLibrary builds the record of a library prebuilt by Zircon.
// One lib entry is a static archive; two entries are a shared object and its debug flavour.
func (c *Context) BuildCompiledLibrary(pkg *descriptor.Package, name string) (*buildfile.CompiledLibrary, error) {
	lib := buildfile.NewCompiledLibrary(name)

	for _, entry := range pkg.Entries(descriptor.SectionIncludes) {
		_, folder, err := c.ExtractFile(entry.Key, entry.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if folder != "" {
			lib.IncludeDirs.Add(buildfile.Label(folder))
		}
	}

	libs := pkg.Entries(descriptor.SectionLibs)

	switch len(libs) {
	case 1:
		file, _, err := c.ExtractFile(libs[0].Key, libs[0].Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		lib.Prebuilt = buildfile.Label(file)
		lib.LibName = path.Base(file)
	case 2:
		lib.IsShared = true

		for _, entry := range libs {
			file, _, err := c.ExtractFile(entry.Key, entry.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}

			if strings.Contains(entry.Key, debugMarker) {
				lib.DebugPrebuilt = buildfile.Label(file)
				lib.LibName = path.Base(file)
			} else {
				lib.Prebuilt = buildfile.Label(file)
			}
		}

		if lib.LibName == "" {
			lib.LibName = path.Base(lib.Prebuilt)
		}
	default:
		keys := make([]string, 0, len(libs))
		for _, entry := range libs {
			keys = append(keys, entry.Key)
		}

		return nil, fmt.Errorf("%w: %s has %d: %s", ErrLibraryShape, name, len(libs), strings.Join(keys, ", "))
	}

	lib.Deps = append(lib.Deps, c.Policy.FilterDeps(pkg.List(descriptor.SectionDeps))...)

	return lib, nil
}

// BuildSysroot builds the record of the files installed in the sysroot.
func (c *Context) BuildSysroot(pkg *descriptor.Package) (*buildfile.Sysroot, error) {
	sysroot := buildfile.NewSysroot()

	for _, entry := range pkg.Entries(descriptor.SectionIncludes) {
		file, _, err := c.ExtractFile(entry.Key, entry.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sysrootDir, err)
		}

		sysroot.Files[path.Join(sysrootIncludeDir, entry.Key)] = buildfile.Label(file)
	}

	for _, entry := range pkg.Entries(descriptor.SectionLibs) {
		file, _, err := c.ExtractFile(entry.Key, entry.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sysrootDir, err)
		}

		sysroot.Files[entry.Key] = buildfile.Label(file)
	}

	return sysroot, nil
}

// generateSourceLibrary writes lib/<name>/<build file> for a source library.
func (c *Context) generateSourceLibrary(ctx context.Context, pkg *descriptor.Package, name string) error {
	lib, err := c.BuildSourceLibrary(pkg, name)
	if err != nil {
		return err
	}

	return c.write(ctx, c.buildFilePath(libDir, name), render.SourceLibrary, lib)
}

// generateCompiledLibrary writes lib/<name>/<build file> for a precompiled library.
func (c *Context) generateCompiledLibrary(ctx context.Context, pkg *descriptor.Package, name string) error {
	lib, err := c.BuildCompiledLibrary(pkg, name)
	if err != nil {
		return err
	}

	return c.write(ctx, c.buildFilePath(libDir, name), render.CompiledLibrary, lib)
}

// generateSysroot writes sysroot/<build file>.
func (c *Context) generateSysroot(ctx context.Context, pkg *descriptor.Package) error {
	sysroot, err := c.BuildSysroot(pkg)
	if err != nil {
		return err
	}

	return c.write(ctx, c.buildFilePath(sysrootDir), render.Sysroot, sysroot)
}

func (c *Context) write(ctx context.Context, relPath, template string, record any) error {
	contents, err := c.Renderer.Render(template, record)
	if err != nil {
		return err
	}

	if err = c.Repository.Write(ctx, relPath, contents); err != nil {
		return fmt.Errorf("write %s: %w", relPath, err)
	}

	return nil
}
