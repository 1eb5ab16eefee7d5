// Package config provides configuration management for resindex using Viper.
package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/location"
	"github.com/thoreinstein/resindex/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "resindex"

// Default identity of the application whose resources are indexed.
const (
	DefaultOrganization = "OpenSCAD"
	DefaultApplication  = "OpenSCAD"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version       int               `mapstructure:"version" yaml:"version"`
	Application   Application       `mapstructure:"application" yaml:"application"`
	Platform      string            `mapstructure:"platform" yaml:"platform,omitempty"`
	MachineEnvVar string            `mapstructure:"machine_env_var" yaml:"machine_env_var,omitempty"`
	Env           map[string]string `mapstructure:"env" yaml:"env,omitempty"`
	Locations     Locations         `mapstructure:"locations" yaml:"locations"`
}

// Application identifies the application whose resources are located.
type Application struct {
	Organization string `mapstructure:"organization" yaml:"organization"`
	Name         string `mapstructure:"name" yaml:"name"`
	Folder       string `mapstructure:"folder" yaml:"folder,omitempty"`
	Suffix       string `mapstructure:"suffix" yaml:"suffix,omitempty"`
	Channel      string `mapstructure:"channel" yaml:"channel,omitempty"`
}

// Locations lists configured additions to the resolved locations.
type Locations struct {
	// Installation holds sibling installation directories.
	Installation []string `mapstructure:"installation" yaml:"installation,omitempty"`
	// User holds extra user directories, used verbatim.
	User []string `mapstructure:"user" yaml:"user,omitempty"`
	// Disabled holds paths that are listed but not scanned.
	Disabled []string `mapstructure:"disabled" yaml:"disabled,omitempty"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	// RESINDEX_APPLICATION_NAME sets application.name, and so on.
	viper.SetEnvPrefix("RESINDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("application.organization", DefaultOrganization)
	viper.SetDefault("application.name", DefaultApplication)
	viper.SetDefault("platform", "")
	viper.SetDefault("machine_env_var", "")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found. The result is validated.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file uses defaults.
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config file not found at %s: %w", path, errors.ErrNotFound)
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Join(append([]error{errors.ErrInvalidConfig}, errs...)...)
	}
	return &cfg, nil
}

// Default returns a configuration holding only default values.
func Default() *Config {
	return &Config{
		Version: 1,
		Application: Application{
			Organization: DefaultOrganization,
			Name:         DefaultApplication,
		},
	}
}

// Identity returns the location identity described by the configuration.
func (c *Config) Identity() location.Identity {
	return location.Identity{
		Organization: c.Application.Organization,
		Application:  c.Application.Name,
		Folder:       c.Application.Folder,
		Suffix:       c.Application.Suffix,
		Channel:      c.Application.Channel,
	}
}

// EnvVars returns the configured variable overrides. Viper folds keys to
// lower case, so names are upper-cased here.
func (c *Config) EnvVars() paths.Env {
	env := make(paths.Env, len(c.Env))
	for k, v := range c.Env {
		env[strings.ToUpper(k)] = v
	}
	return env
}

// ResolverOptions returns the location options the configuration implies.
// The platform must already have passed Validate.
func (c *Config) ResolverOptions() []location.Option {
	opts := []location.Option{
		location.WithEnv(c.EnvVars()),
		location.WithSiblings(c.Locations.Installation...),
		location.WithExtraPaths(c.Locations.User...),
		location.WithDisabled(c.Locations.Disabled...),
	}
	if c.Platform != "" {
		if p, err := location.ParsePlatform(c.Platform); err == nil {
			opts = append(opts, location.WithPlatform(p))
		}
	}
	if c.MachineEnvVar != "" {
		opts = append(opts, location.WithMachineEnvVar(c.MachineEnvVar))
	}
	return opts
}
