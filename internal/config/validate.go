package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/location"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidPlatform indicates an unrecognized platform name.
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrMissingApplication indicates application.name is empty.
	ErrMissingApplication = errors.New("application.name must be set")

	// ErrInvalidVariable indicates an env key that cannot be referenced by
	// a location template.
	ErrInvalidVariable = errors.New("invalid variable name")
)

var variableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_()]*$`)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if strings.TrimSpace(cfg.Application.Name) == "" {
		errs = append(errs, ErrMissingApplication)
	}

	if cfg.Platform != "" {
		if _, err := location.ParsePlatform(cfg.Platform); err != nil {
			errs = append(errs, &PlatformError{
				Platform: cfg.Platform,
				Err:      ErrInvalidPlatform,
			})
		}
	}

	if cfg.MachineEnvVar != "" && !variableNameRe.MatchString(cfg.MachineEnvVar) {
		errs = append(errs, &PathError{Field: "machine_env_var", Path: cfg.MachineEnvVar, Err: ErrInvalidVariable})
	}

	for name := range cfg.Env {
		if !variableNameRe.MatchString(name) {
			errs = append(errs, &PathError{Field: "env", Path: name, Err: ErrInvalidVariable})
		}
	}

	fields := []struct {
		name  string
		paths []string
	}{
		{"locations.installation", cfg.Locations.Installation},
		{"locations.user", cfg.Locations.User},
		{"locations.disabled", cfg.Locations.Disabled},
	}
	for _, f := range fields {
		for _, p := range f.paths {
			if err := validatePath(p); err != nil {
				errs = append(errs, &PathError{Field: f.name, Path: p, Err: err})
			}
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
// List entries may not be empty.
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// PlatformError represents an error for a specific platform.
type PlatformError struct {
	Platform string
	Err      error
}

func (e *PlatformError) Error() string {
	return e.Err.Error() + ": " + e.Platform
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
