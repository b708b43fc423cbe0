package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every generation step.
type Config struct {
	// ProjectRoot is the Fuchsia checkout root; generated labels are relative to it.
	ProjectRoot string `yaml:"project_root"`
	// ZirconRoot is the Zircon source tree that replaces the SOURCE path marker.
	ZirconRoot string `yaml:"zircon_root"`
	// BuildCommand is the shell command line that exports package descriptors.
	// It runs in ZirconRoot with BUILDDIR pointing at a scratch directory.
	BuildCommand string `yaml:"build_command"`
	// BuildFileName is the name of every generated file.
	BuildFileName string `yaml:"build_file_name"`
	// TemplatesDir optionally overrides the embedded templates.
	TemplatesDir string `yaml:"templates_dir,omitempty"`
	// Sysroot lists the packages provided by the sysroot.
	Sysroot Sysroot `yaml:"sysroot"`
}

// Sysroot describes the packages that are implicitly available to every library.
type Sysroot struct {
	// Package is the descriptor that is turned into the sysroot build file.
	Package string `yaml:"package"`
	// Packages are never declared as explicit dependencies and never get their own build file.
	Packages []string `yaml:"packages"`
}

const (
	// DefaultConfigFilename is the default filename for generator settings.
	DefaultConfigFilename = "zircon-gn.yaml"

	// DefaultBuildCommand asks the Zircon build to export its package descriptors.
	DefaultBuildCommand = `make packages BUILDDIR="$BUILDDIR"`

	// DefaultBuildFileName is the GN build file name.
	DefaultBuildFileName = "BUILD.gn"

	// DefaultSysrootPackage is the descriptor holding the C library and system headers.
	DefaultSysrootPackage = "c"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o644

	// zirconDirName is the Zircon tree location inside the project root.
	zirconDirName = "zircon"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidBuildFileName is returned when the build file name is empty or contains a directory.
	errInvalidBuildFileName = errors.New("build file name must be a plain file name")
	// errEmptySysrootPackage is returned when the sysroot list contains an empty name.
	errEmptySysrootPackage = errors.New("sysroot package names must not be empty")
)

// DefaultSysrootPackages returns the packages bundled in the sysroot.
func DefaultSysrootPackages() []string {
	return []string{"c", "zircon"}
}

// Default returns a validated configuration rooted at the current directory.
func Default() *Config {
	cfg := new(Config)

	// Defaults alone always pass validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and checks the provided settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}

	if cfg.ZirconRoot == "" {
		cfg.ZirconRoot = filepath.Join(cfg.ProjectRoot, zirconDirName)
	}

	if strings.TrimSpace(cfg.BuildCommand) == "" {
		cfg.BuildCommand = DefaultBuildCommand
	}

	if cfg.BuildFileName == "" {
		cfg.BuildFileName = DefaultBuildFileName
	}

	if cfg.BuildFileName != filepath.Base(cfg.BuildFileName) || cfg.BuildFileName == "." {
		return fmt.Errorf("%w: %q", errInvalidBuildFileName, cfg.BuildFileName)
	}

	if cfg.Sysroot.Package == "" {
		cfg.Sysroot.Package = DefaultSysrootPackage
	}

	if cfg.Sysroot.Packages == nil {
		cfg.Sysroot.Packages = DefaultSysrootPackages()
	}

	if slices.Contains(cfg.Sysroot.Packages, "") {
		return errEmptySysrootPackage
	}

	return nil
}

// Absolute returns a copy of cfg with every directory made absolute.
func (c *Config) Absolute() (*Config, error) {
	abs := *c
	abs.Sysroot.Packages = slices.Clone(c.Sysroot.Packages)

	for _, dir := range []*string{&abs.ProjectRoot, &abs.ZirconRoot, &abs.TemplatesDir} {
		if *dir == "" {
			continue
		}

		resolved, err := filepath.Abs(*dir)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", *dir, err)
		}

		*dir = resolved
	}

	return &abs, nil
}

// SetProjectRoot moves the project root. A Zircon root derived from the
// previous project root follows it; an explicitly configured one is kept.
func (c *Config) SetProjectRoot(root string) {
	if c.ZirconRoot == "" || c.ZirconRoot == filepath.Join(c.ProjectRoot, zirconDirName) {
		c.ZirconRoot = filepath.Join(root, zirconDirName)
	}

	c.ProjectRoot = root
}
