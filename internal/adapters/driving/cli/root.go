// Package cli implements the croissant-toml command line using Cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driving"
	"github.com/TheLustriVA/Croissant-TOML/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "0.1.0"

// Services holds the driving ports the commands call.
type Services struct {
	Conversion driving.ConversionService
	Settings   driving.SettingsService

	// ConfigPath is the settings file, shown by "settings show".
	ConfigPath string
}

// Builder assembles the services for a settings directory.
// An empty directory selects the default location.
type Builder func(configDir string) (*Services, error)

var (
	verbose   bool
	configDir string

	build             Builder
	conversionService driving.ConversionService
	settingsService   driving.SettingsService
	configPath        string
)

var rootCmd = &cobra.Command{
	Use:   "croissant-toml",
	Short: "Convert Croissant dataset metadata between JSON-LD and commented TOML",
	Long: `croissant-toml turns Croissant JSON-LD metadata into a commented TOML file
that is easy to read and edit by hand, validates the edited TOML, and converts
it back into JSON-LD.

Usage:
  croissant-toml to-toml dataset.json -o dataset.toml
  croissant-toml validate dataset.toml
  croissant-toml to-json dataset.toml -o dataset.json`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline steps to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default ~/.croissant-toml)")
}

// Execute runs the root command and returns the process exit code.
// SIGINT and SIGTERM cancel the command context.
func Execute(b Builder) int {
	build = b

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// setup applies global flags and builds the services once.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if conversionService != nil && settingsService != nil {
		return nil
	}
	if build == nil {
		return errors.New("services not configured")
	}

	svc, err := build(configDir)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	conversionService = svc.Conversion
	settingsService = svc.Settings
	configPath = svc.ConfigPath
	logger.Debug("settings file: %s", configPath)
	return nil
}
