package buildfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFileRepository_ResetWipesRoot ensures stale files disappear and the root exists afterwards.
func TestFileRepository_ResetWipesRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "out")
	stale := filepath.Join(root, "lib", "gone", "BUILD.gn")

	require.NoError(t, os.MkdirAll(filepath.Dir(stale), DefaultDirPermissions))
	require.NoError(t, os.WriteFile(stale, []byte("stale"), DefaultFilePermissions))

	repo := NewFileRepository(root)
	require.NoError(t, repo.Reset(context.Background()))

	_, err := os.Stat(stale)
	require.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries)

	// Reset of a missing root just creates it.
	repo = NewFileRepository(filepath.Join(t.TempDir(), "fresh"))
	require.NoError(t, repo.Reset(context.Background()))

	_, err = os.Stat(repo.Root())
	require.NoError(t, err)
}

// TestFileRepository_Write creates parents, overwrites, and stays below the root.
func TestFileRepository_Write(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(t.TempDir())
	rel := filepath.Join("lib", "fbl", "BUILD.gn")

	require.NoError(t, repo.Write(context.Background(), rel, []byte("first")))
	require.NoError(t, repo.Write(context.Background(), rel, []byte("second")))

	contents, err := os.ReadFile(filepath.Join(repo.Root(), rel))
	require.NoError(t, err)
	require.Equal(t, "second", string(contents))

	require.ErrorIs(t, repo.Write(context.Background(), "../escape", nil), ErrOutsideRoot)
	require.ErrorIs(t, repo.Write(context.Background(), "/abs/BUILD.gn", nil), ErrOutsideRoot)
}

// TestFileRepository_RefusesFilesystemRoot guards against wiping "/".
func TestFileRepository_RefusesFilesystemRoot(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(string(filepath.Separator))
	require.ErrorIs(t, repo.Reset(context.Background()), ErrUnsafeRoot)
}
