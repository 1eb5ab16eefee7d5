package resource

import (
	"path"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/resindex/internal/errors"
)

// Type identifies the kind of resource. The set is closed.
type Type int

// Resource type constants.
const (
	TypeUnknown Type = iota
	TypeGroup
	TypeExamples
	TypeTests
	TypeFonts
	TypeColorSchemes
	TypeEditorColors
	TypeRenderColors
	TypeShaders
	TypeTemplates
	TypeLibraries
	TypeTranslations
	TypeNewResources
)

var typeNames = [...]string{
	TypeUnknown:      "unknown",
	TypeGroup:        "group",
	TypeExamples:     "examples",
	TypeTests:        "tests",
	TypeFonts:        "fonts",
	TypeColorSchemes: "color-schemes",
	TypeEditorColors: "editor-colors",
	TypeRenderColors: "render-colors",
	TypeShaders:      "shaders",
	TypeTemplates:    "templates",
	TypeLibraries:    "libraries",
	TypeTranslations: "translations",
	TypeNewResources: "new-resources",
}

// String returns the stable lower-case name of t.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return typeNames[TypeUnknown]
	}
	return typeNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseType parses a type name case-insensitively. Both the String form
// ("editor-colors") and the sub-folder form ("color-schemes/editor") are
// accepted.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	if t := DefaultTypes().BySubfolder(s); t != TypeUnknown {
		return t, nil
	}
	return TypeUnknown, errors.Wrapf(errors.ErrUnknownType, "%q", s)
}

// AllTypes returns every type in enumeration order.
func AllTypes() []Type {
	out := make([]Type, len(typeNames))
	for i := range typeNames {
		out[i] = Type(i)
	}
	return out
}

// Tier is where a resource location lives. Higher tiers take precedence.
type Tier int

// Tier constants in ascending precedence.
const (
	TierInstallation Tier = iota
	TierMachine
	TierUser
)

// String returns the lower-case tier name.
func (t Tier) String() string {
	switch t {
	case TierInstallation:
		return "installation"
	case TierMachine:
		return "machine"
	case TierUser:
		return "user"
	default:
		return "unknown"
	}
}

// Title returns the tier name for display.
func (t Tier) Title() string {
	switch t {
	case TierInstallation:
		return "Installation"
	case TierMachine:
		return "Machine"
	case TierUser:
		return "User"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	for _, t := range AllTiers() {
		if strings.EqualFold(strings.TrimSpace(s), t.String()) {
			return t, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrUnknownTier, "%q", s)
}

// AllTiers returns the tiers in ascending precedence.
func AllTiers() []Tier {
	return []Tier{TierInstallation, TierMachine, TierUser}
}

// DiscoveredResource is one classified file. Path is its identity.
//
// Values are created by the Scanner and passed by value; nothing mutates a
// resource after construction.
type DiscoveredResource struct {
	// Path is the absolute file path.
	Path string `json:"path" yaml:"path" toml:"path"`

	// Name is the file name without its extension.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Category is the first sub-folder below the type folder (an example
	// group, library or locale), empty for files directly in it.
	Category string `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`

	// LocationKey identifies the scan root that produced the resource.
	LocationKey string `json:"location" yaml:"location" toml:"location"`

	Type         Type      `json:"type" yaml:"type" toml:"type"`
	Tier         Tier      `json:"tier" yaml:"tier" toml:"tier"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified" toml:"last_modified"`
	Size         int64     `json:"size" yaml:"size" toml:"size"`
}

// LibraryName returns the library a resource lives in and whether there was
// one. Below LocationKey only a leading "libraries/<name>/" pair counts, so
// folders above the scan root and "libraries" folders nested inside other
// types are ignored. Paths outside LocationKey fall back to the innermost
// pair anywhere in the path.
func (r DiscoveredResource) LibraryName() (string, bool) {
	segs := splitSegments(r.Path)
	sub := DefaultTypes().Subfolder(TypeLibraries)

	if root := splitSegments(r.LocationKey); len(root) > 0 && hasPrefix(segs, root) {
		rel := segs[len(root):]
		// The last segment is the file itself, so a library needs two more.
		if len(rel) >= 3 && rel[0] == sub {
			return rel[1], true
		}
		return "", false
	}

	for i := len(segs) - 3; i >= 0; i-- {
		if segs[i] == sub {
			return segs[i+1], true
		}
	}
	return "", false
}

func hasPrefix(segs, prefix []string) bool {
	return len(segs) >= len(prefix) && slices.Equal(segs[:len(prefix)], prefix)
}

// splitSegments splits p on either separator and drops empty and "." parts.
func splitSegments(p string) []string {
	p = strings.ReplaceAll(p, `\`, "/")
	parts := strings.Split(p, "/")
	return slices.DeleteFunc(parts, func(s string) bool { return s == "" || s == "." })
}

// extOf returns the lower-cased extension of name, including the dot.
func extOf(name string) string {
	return strings.ToLower(path.Ext(strings.ReplaceAll(name, `\`, "/")))
}
