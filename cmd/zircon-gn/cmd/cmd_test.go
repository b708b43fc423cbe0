package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/zircon-gn/internal/config"
)

// TestInspect prints each descriptor as a YAML document headed by its path.
func TestInspect(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lib-zx.pkg")
	require.NoError(t, os.WriteFile(path, []byte("[package]\nname=zx\ntype=lib\narch=x86-64\n[deps]\nc\n"), 0o644))

	var out bytes.Buffer

	cmd := newInspectCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	require.True(t, strings.HasPrefix(out.String(), "# "+path+"\n"))
	require.True(t, strings.HasSuffix(out.String(), "package:\n  name: zx\n  type: lib\n  arch: x86-64\ndeps:\n  - c\n"))
}

// TestInspect_ParseError reports the failing file.
func TestInspect_ParseError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.pkg")
	require.NoError(t, os.WriteFile(path, []byte("[lib]\na=b\nbare\n"), 0o644))

	cmd := newInspectCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), path)
}

// TestInitConfig writes loadable defaults and refuses to overwrite them.
func TestInitConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)

	run := func(args ...string) error {
		cmd := newInitConfigCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs(args)

		return cmd.Execute()
	}

	require.NoError(t, run("--config", path))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	require.ErrorIs(t, run("--config", path), errConfigExists)
	require.NoError(t, run("--config", path, "--force"))
}
