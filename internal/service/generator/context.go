package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oshokin/zircon-gn/internal/domain/buildfile"
)

const (
	// sourcePrefix marks a path inside the Zircon source tree.
	sourcePrefix = "SOURCE"
	// buildPrefix marks a path inside the Zircon build output.
	buildPrefix = "BUILD"
)

// ErrUnknownPathPrefix is returned for descriptor paths that start with neither SOURCE nor BUILD.
var ErrUnknownPathPrefix = errors.New("unknown path prefix")

// Renderer renders a record through a named template.
type Renderer interface {
	Render(name string, data any) ([]byte, error)
}

// Repository stores generated build files below the output directory.
type Repository interface {
	Reset(ctx context.Context) error
	Write(ctx context.Context, relPath string, contents []byte) error
}

// Context describes where build files are generated and how paths are resolved.
// It is not modified once generation starts.
type Context struct {
	// ProjectRoot is the directory every generated label is relative to.
	ProjectRoot string
	// SourceBase replaces the SOURCE marker of descriptor paths.
	SourceBase string
	// BuildBase replaces the BUILD marker of descriptor paths.
	BuildBase string
	// BuildFileName is the name of each generated file.
	BuildFileName string
	// Policy knows the sysroot package and its allow-list.
	Policy buildfile.SysrootPolicy
	// Renderer turns records into file contents.
	Renderer Renderer
	// Repository receives the rendered files.
	Repository Repository
}

// ExtractFile resolves a descriptor path of the form <SOURCE|BUILD>/.../name.
// file is the resolved path relative to the project root; folder is the
// directory holding name, or empty when the resolved path does not end with name.
func (c *Context) ExtractFile(name, path string) (file, folder string, err error) {
	var full string

	switch {
	case strings.HasPrefix(path, sourcePrefix):
		full = c.SourceBase + strings.TrimPrefix(path, sourcePrefix)
	case strings.HasPrefix(path, buildPrefix):
		full = c.BuildBase + strings.TrimPrefix(path, buildPrefix)
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnknownPathPrefix, path)
	}

	if file, err = c.relative(full); err != nil {
		return "", "", err
	}

	if name != "" && strings.HasSuffix(full, name) {
		if folder, err = c.relative(strings.TrimSuffix(full, name)); err != nil {
			return "", "", err
		}
	}

	return file, folder, nil
}

func (c *Context) relative(path string) (string, error) {
	rel, err := filepath.Rel(c.ProjectRoot, filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("relate %s to %s: %w", path, c.ProjectRoot, err)
	}

	return filepath.ToSlash(rel), nil
}

// buildFilePath returns the output location of a build file inside dir.
func (c *Context) buildFilePath(dir ...string) string {
	return filepath.Join(append(dir, c.BuildFileName)...)
}
