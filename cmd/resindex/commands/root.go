// Package commands implements the CLI commands for resindex.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/resindex/cmd"
	"github.com/thoreinstein/resindex/internal/config"
	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/location"
	"github.com/thoreinstein/resindex/internal/logging"
)

// configFile holds the value of the --config flag.
var configFile string

// platformFlag holds the value of the --platform flag.
var platformFlag string

// locationFlags holds explicit tier=path scan roots.
var locationFlags []string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// loadedConfig is the configuration read at startup.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml or ~/.config/resindex/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&platformFlag, "platform", "p", "",
		"location templates to use: linux, darwin, windows (default: current OS)")
	rootCmd.PersistentFlags().StringArrayVarP(&locationFlags, "location", "l", nil,
		"scan tier=path instead of the resolved locations (repeatable)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("resindex version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "resindex",
	Short: "Locate, classify and index application resources",
	Long: `resindex finds the resource folders of an application across its
installation, machine-wide and per-user locations, classifies the files it
finds there (templates, color schemes, fonts, libraries, examples, tests,
shaders, translations) and presents them as a list or a tree.

Locations are resolved from platform templates such as ${XDG_DATA_HOME}/
and %APPDATA%/ plus the paths configured in config.yaml. Use --location to
scan explicit folders instead.`,
	Example: `  # Show where resources are looked for
  resindex locations

  # List every discovered template as JSON
  resindex scan --type templates --output json

  # Show the resource tree
  resindex tree

  # Scan an explicit folder as the user tier
  resindex scan --location user=$HOME/Documents/OpenSCAD`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validateFlags(cmd, args)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pass only one of -q and -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("RESINDEX_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	logger := slog.New(logging.NewMultiHandler(handlers...))
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// validateFlags checks config loading and the global flags.
func validateFlags(cmd *cobra.Command, _ []string) error {
	// Skip validation for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	if platformFlag != "" {
		if _, err := location.ParsePlatform(platformFlag); err != nil {
			return errors.NewUserError(err, "Valid platforms: linux, darwin, windows")
		}
	}

	if _, err := explicitLocations(locationFlags); err != nil {
		return errors.NewUserError(err, "Use --location tier=path, e.g. --location user=/path/to/resources")
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
