package location

import (
	"strings"

	"github.com/thoreinstein/resindex/internal/resource"
)

// Source records where a location came from.
type Source int

const (
	// SourceTemplate is a built-in platform template.
	SourceTemplate Source = iota
	// SourceMachineEnv is the machine-wide environment variable.
	SourceMachineEnv
	// SourceSibling is a configured sibling installation.
	SourceSibling
	// SourceExtra is a configured extra user path.
	SourceExtra
)

var sourceNames = [...]string{
	SourceTemplate:   "template",
	SourceMachineEnv: "environment",
	SourceSibling:    "sibling",
	SourceExtra:      "extra",
}

func (s Source) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return "unknown"
	}
	return sourceNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Location is one candidate resource root.
type Location struct {
	Path        string        `json:"path" yaml:"path" toml:"path"`
	DisplayName string        `json:"display_name" yaml:"display_name" toml:"display_name"`
	Enabled     bool          `json:"enabled" yaml:"enabled" toml:"enabled"`
	Exists      bool          `json:"exists" yaml:"exists" toml:"exists"`
	Tier        resource.Tier `json:"tier" yaml:"tier" toml:"tier"`
	Source      Source        `json:"source" yaml:"source" toml:"source"`
	Template    string        `json:"template,omitempty" yaml:"template,omitempty" toml:"template,omitempty"`
}

// Scannable reports whether the location should be scanned.
func (l Location) Scannable() bool {
	return l.Enabled && l.Exists && l.Path != ""
}

// Identity names the application whose resources are located.
type Identity struct {
	Organization string
	Application  string

	// Folder is the directory appended to templates ending in a separator.
	// Defaults to Application.
	Folder string

	// Suffix is appended to Folder for Installation templates only, for
	// example a versioned install directory.
	Suffix string

	// Channel labels the display names of Installation locations.
	Channel string
}

func (id Identity) folder() string {
	if id.Folder != "" {
		return id.Folder
	}
	return id.Application
}

// MachineEnvVar returns the default machine-wide variable name,
// "<APPLICATION>_RESOURCE_PATH" upper-cased with non-alphanumerics as "_".
func (id Identity) MachineEnvVar() string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, id.Application)
	return name + "_RESOURCE_PATH"
}
