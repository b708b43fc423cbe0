package packaging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testEnviron() []string {
	return []string{"PATH=" + os.Getenv("PATH")}
}

// TestShellRunner_ExportsManifest runs a command that behaves like the packaging build.
func TestShellRunner_ExportsManifest(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	command := `mkdir -p "$BUILDDIR/export" && echo lib-fbl.pkg > "$BUILDDIR/export/manifest" && echo "quiet=$QUIET" && pwd`

	runner, err := NewShellRunner(command, WithEnviron(testEnviron()), WithOutput(&stdout, &stdout))
	require.NoError(t, err)

	dir := t.TempDir()
	buildDir := t.TempDir()

	require.NoError(t, runner.Run(context.Background(), Request{Dir: dir, BuildDir: buildDir}))

	contents, err := os.ReadFile(ManifestPath(buildDir))
	require.NoError(t, err)
	require.Equal(t, "lib-fbl.pkg\n", string(contents))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Equal(t, []string{"quiet=1", dir}, lines)

	// Verbose runs drop QUIET.
	stdout.Reset()
	require.NoError(t, runner.Run(context.Background(), Request{Dir: dir, BuildDir: buildDir, Verbose: true}))
	require.True(t, strings.HasPrefix(stdout.String(), "quiet=\n"))
}

// TestShellRunner_Failures reports non-zero exits and unparsable commands.
func TestShellRunner_Failures(t *testing.T) {
	t.Parallel()

	runner, err := NewShellRunner("exit 3", WithEnviron(testEnviron()))
	require.NoError(t, err)

	err = runner.Run(context.Background(), Request{Dir: t.TempDir(), BuildDir: t.TempDir()})
	require.ErrorIs(t, err, ErrBuildFailed)
	require.Contains(t, err.Error(), "status 3")

	_, err = NewShellRunner("if then fi (")
	require.Error(t, err)
}

// TestPaths checks the layout expected inside the scratch directory.
func TestPaths(t *testing.T) {
	t.Parallel()

	require.Equal(t, filepath.Join("tmp", "export"), ExportDir("tmp"))
	require.Equal(t, filepath.Join("tmp", "export", "manifest"), ManifestPath("tmp"))
}
