package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)

	// Empty config gets defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, ".", cfg.ProjectRoot)
	require.Equal(t, "zircon", cfg.ZirconRoot)
	require.Equal(t, DefaultBuildCommand, cfg.BuildCommand)
	require.Equal(t, DefaultBuildFileName, cfg.BuildFileName)
	require.Equal(t, DefaultSysrootPackage, cfg.Sysroot.Package)
	require.Equal(t, []string{"c", "zircon"}, cfg.Sysroot.Packages)

	// Zircon root follows the project root.
	cfg = &Config{ProjectRoot: "/src/fuchsia"}
	require.NoError(t, Validate(cfg))
	require.Equal(t, "/src/fuchsia/zircon", cfg.ZirconRoot)

	// Build file name must not contain directories.
	cfg = &Config{BuildFileName: "gn/BUILD.gn"}
	require.ErrorIs(t, Validate(cfg), errInvalidBuildFileName)

	// Explicitly empty allow-list is kept, empty names are not.
	cfg = &Config{Sysroot: Sysroot{Packages: []string{}}}
	require.NoError(t, Validate(cfg))
	require.Empty(t, cfg.Sysroot.Packages)

	cfg = &Config{Sysroot: Sysroot{Packages: []string{"c", ""}}}
	require.ErrorIs(t, Validate(cfg), errEmptySysrootPackage)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "zircon-gn.yaml")

	cfg := &Config{
		ProjectRoot:  "/src/fuchsia",
		BuildCommand: "make -j8 packages BUILDDIR=$BUILDDIR",
		TemplatesDir: "/src/fuchsia/build/zircon/templates",
		Sysroot: Sysroot{
			Package:  "c",
			Packages: []string{"c", "zircon", "runtime"},
		},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadOrDefault falls back to defaults only for missing files.
func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("sysroot: [unterminated"), DefaultFilePermissions))

	_, err = LoadOrDefault(broken)
	require.Error(t, err)
}

// TestAbsolute resolves relative directories without touching the original.
func TestAbsolute(t *testing.T) {
	t.Parallel()

	cfg := Default()

	abs, err := cfg.Absolute()
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(abs.ProjectRoot))
	require.True(t, filepath.IsAbs(abs.ZirconRoot))
	require.Empty(t, abs.TemplatesDir)
	require.Equal(t, ".", cfg.ProjectRoot)
}

// TestSetProjectRoot moves derived Zircon roots only.
func TestSetProjectRoot(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.SetProjectRoot("/src/fuchsia")
	require.Equal(t, "/src/fuchsia", cfg.ProjectRoot)
	require.Equal(t, "/src/fuchsia/zircon", cfg.ZirconRoot)

	cfg = &Config{ProjectRoot: "/a", ZirconRoot: "/elsewhere/zircon"}
	cfg.SetProjectRoot("/b")
	require.Equal(t, "/b", cfg.ProjectRoot)
	require.Equal(t, "/elsewhere/zircon", cfg.ZirconRoot)
}
