package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/zircon-gn/internal/domain/buildfile"
	"github.com/oshokin/zircon-gn/internal/domain/descriptor"
	"github.com/oshokin/zircon-gn/internal/render"
)

// recordingRenderer returns the template name as contents and keeps the records.
type recordingRenderer struct {
	records map[string]any
}

func (r *recordingRenderer) Render(name string, data any) ([]byte, error) {
	if r.records == nil {
		r.records = make(map[string]any)
	}

	r.records[name] = data

	return []byte(name), nil
}

// memoryRepository keeps written files in memory.
type memoryRepository struct {
	files  map[string]string
	resets int
}

func (m *memoryRepository) Reset(_ context.Context) error {
	m.resets++
	m.files = make(map[string]string)

	return nil
}

func (m *memoryRepository) Write(_ context.Context, relPath string, contents []byte) error {
	if m.files == nil {
		m.files = make(map[string]string)
	}

	m.files[relPath] = string(contents)

	return nil
}

func newGenerateContext() (*Context, *recordingRenderer, *memoryRepository) {
	renderer := new(recordingRenderer)
	repo := new(memoryRepository)

	c := newPolicyContext()
	c.Renderer = renderer
	c.Repository = repo

	return c, renderer, repo
}

const (
	zxDescriptor = `[package]
name=zx
type=lib
arch=x86-64
[lib]
lib/libzx.a=BUILD/build-x64/ulib/zx/libzx.a
`
	sysrootDescriptor = `[package]
name=c
type=lib
arch=x86-64
[includes]
stdio.h=BUILD/sysroot/include/stdio.h
`
	zirconDescriptor = `[package]
name=zircon
type=lib
arch=x86-64
[lib]
lib/libzircon.so=BUILD/sysroot/lib/libzircon.so
`
	firmwareDescriptor = `[package]
name=blob
type=firmware
arch=x86-64
`
)

// TestGenerate dispatches every package to its build file.
func TestGenerate(t *testing.T) {
	t.Parallel()

	c, renderer, repo := newGenerateContext()

	pkgs := []*descriptor.Package{
		mustParse(t, fblDescriptor),
		mustParse(t, zxDescriptor),
		mustParse(t, sysrootDescriptor),
		mustParse(t, zirconDescriptor),
		mustParse(t, firmwareDescriptor),
	}

	require.NoError(t, c.Generate(context.Background(), pkgs))

	require.Equal(t, map[string]string{
		"lib/fbl/BUILD.gn": render.SourceLibrary,
		"lib/zx/BUILD.gn":  render.CompiledLibrary,
		"sysroot/BUILD.gn": render.Sysroot,
	}, repo.files)

	require.IsType(t, &buildfile.SourceLibrary{}, renderer.records[render.SourceLibrary])
	require.IsType(t, &buildfile.CompiledLibrary{}, renderer.records[render.CompiledLibrary])
	require.IsType(t, &buildfile.Sysroot{}, renderer.records[render.Sysroot])
}

// TestGenerate_BuildFileName honours a custom build file name.
func TestGenerate_BuildFileName(t *testing.T) {
	t.Parallel()

	c, _, repo := newGenerateContext()
	c.BuildFileName = "rules.gni"

	require.NoError(t, c.Generate(context.Background(), []*descriptor.Package{mustParse(t, zxDescriptor)}))
	require.Contains(t, repo.files, "lib/zx/rules.gni")
}

// TestGenerate_StopsOnFailure keeps earlier files and reports the failing package.
func TestGenerate_StopsOnFailure(t *testing.T) {
	t.Parallel()

	c, _, repo := newGenerateContext()

	broken := mustParse(t, "[package]\nname=broken\ntype=lib\narch=x86-64\n[lib]\na=BUILD/a\nb=BUILD/b\nc=BUILD/c\n")

	err := c.Generate(context.Background(), []*descriptor.Package{
		mustParse(t, zxDescriptor),
		broken,
		mustParse(t, fblDescriptor),
	})
	require.ErrorIs(t, err, ErrLibraryShape)
	require.Contains(t, err.Error(), "broken")

	require.Equal(t, map[string]string{"lib/zx/BUILD.gn": render.CompiledLibrary}, repo.files)
}

// TestGenerate_MissingPackageInfo fails on descriptors without a package section.
func TestGenerate_MissingPackageInfo(t *testing.T) {
	t.Parallel()

	c, _, _ := newGenerateContext()

	err := c.Generate(context.Background(), []*descriptor.Package{mustParse(t, "[lib]\na=BUILD/a\n")})
	require.ErrorIs(t, err, descriptor.ErrMissingPackageInfo)
}
