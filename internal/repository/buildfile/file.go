package buildfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Repository defines persistence operations for generated build files.
type Repository interface {
	Reset(ctx context.Context) error
	Write(ctx context.Context, relPath string, contents []byte) error
}

const (
	// DefaultDirPermissions is used for the output root and its subdirectories.
	DefaultDirPermissions = 0o755
	// DefaultFilePermissions is used for generated build files.
	DefaultFilePermissions = 0o644
)

var (
	// ErrOutsideRoot is returned when a relative path escapes the output root.
	ErrOutsideRoot = errors.New("path escapes the output root")
	// ErrUnsafeRoot is returned when asked to wipe a filesystem or volume root.
	ErrUnsafeRoot = errors.New("refusing to use a filesystem root as output directory")
)

// FileRepository writes build files below an output root directory.
type FileRepository struct {
	// root is the output directory that is wiped on Reset.
	root string
}

// NewFileRepository creates a repository rooted at the provided directory.
func NewFileRepository(root string) *FileRepository {
	return &FileRepository{
		root: filepath.Clean(root),
	}
}

// Root returns the output directory.
func (r *FileRepository) Root() string {
	return r.root
}

// Reset removes the output root with all its content and recreates it empty.
func (r *FileRepository) Reset(_ context.Context) error {
	if r.root == filepath.Dir(r.root) {
		return fmt.Errorf("%w: %s", ErrUnsafeRoot, r.root)
	}

	if err := os.RemoveAll(r.root); err != nil {
		return fmt.Errorf("remove output directory: %w", err)
	}

	if err := os.MkdirAll(r.root, DefaultDirPermissions); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return nil
}

// Write stores contents at relPath below the root, creating parent directories and
// replacing any existing file.
func (r *FileRepository) Write(_ context.Context, relPath string, contents []byte) error {
	if !filepath.IsLocal(relPath) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, relPath)
	}

	path := filepath.Join(r.root, relPath)

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return fmt.Errorf("create directory for %s: %w", relPath, err)
	}

	if err := os.WriteFile(path, contents, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write build file %s: %w", relPath, err)
	}

	return nil
}
