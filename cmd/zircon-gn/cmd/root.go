package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/zircon-gn/internal/config"
	"github.com/oshokin/zircon-gn/internal/logger"
	"github.com/oshokin/zircon-gn/internal/service/generator"
	"github.com/oshokin/zircon-gn/internal/version"
)

// errInvalidLogLevel is returned for unknown --log-level values.
var errInvalidLogLevel = errors.New("invalid log level")

var (
	// configPath to the configuration YAML file.
	configPath string
	// outputDir receives the generated build files.
	outputDir string
	// zirconBuildDir is the Zircon build output directory.
	zirconBuildDir string
	// projectRoot overrides the project root of the configuration.
	projectRoot string
	// zirconRoot overrides the Zircon source tree of the configuration.
	zirconRoot string
	// logLevel is the minimum level of printed messages.
	logLevel string
	// debug keeps intermediate files and prints debug information.
	debug bool

	// rootCmd represents the base command generating the build files.
	rootCmd = &cobra.Command{
		Use:          "zircon-gn",
		Short:        "Generate GN build files from Zircon package descriptors",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if err := applyLogLevel(); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			options := &generator.Options{
				Config:         cfg,
				OutputDir:      outputDir,
				ZirconBuildDir: zirconBuildDir,
				Debug:          debug,
			}

			return generator.Run(ctx, options)
		},
	}
)

// Execute runs the zircon-gn CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyLogLevel sets the global level from --log-level, lowered to debug by --debug.
func applyLogLevel() error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, logLevel)
	}

	if debug {
		level = zapcore.DebugLevel
	}

	logger.SetLevel(level)

	return nil
}

// loadConfig reads the configuration file and applies command line overrides.
// A missing file is only an error when --config was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOrDefault(configPath)
	}

	if err != nil {
		return nil, err
	}

	if projectRoot != "" {
		cfg.SetProjectRoot(projectRoot)
	}

	if zirconRoot != "" {
		cfg.ZirconRoot = zirconRoot
	}

	return cfg, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVar(&outputDir, "out", "", "path to the output directory")
	flags.StringVar(&zirconBuildDir, "zircon-build", "", "path to the Zircon build directory")
	flags.StringVar(&projectRoot, "project-root", "", "directory generated labels are relative to")
	flags.StringVar(&zirconRoot, "zircon-root", "", "path to the Zircon source tree")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&debug, "debug", false, "keep the exported descriptors and print debug information")

	_ = rootCmd.MarkFlagRequired("out")
	_ = rootCmd.MarkFlagRequired("zircon-build")

	rootCmd.AddCommand(newInspectCmd(), newInitConfigCmd())
}
