package location

import (
	"runtime"
	"strings"

	"github.com/thoreinstein/resindex/internal/errors"
)

// Platform selects the template set used for resolution.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
)

// CurrentPlatform returns the platform of the running binary. Unix systems
// other than macOS use the Linux templates.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	default:
		return PlatformLinux
	}
}

// ParsePlatform parses a platform name. "macos" is accepted for darwin.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux":
		return PlatformLinux, nil
	case "darwin", "macos":
		return PlatformDarwin, nil
	case "windows":
		return PlatformWindows, nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownPlatform, "%q", s)
	}
}

// Templates ending in a separator get the application folder appended.
var installationTemplates = map[Platform][]string{
	PlatformLinux:   {"${EXEDIR}", "${EXEDIR}/../share/"},
	PlatformDarwin:  {"${EXEDIR}/../Resources", "${EXEDIR}/../share/"},
	PlatformWindows: {"%EXEDIR%", "%PROGRAMFILES%/"},
}

var machineTemplates = map[Platform][]string{
	PlatformLinux:   {"${XDG_DATA_DIRS}"},
	PlatformDarwin:  {"/Library/Application Support/"},
	PlatformWindows: {"%PROGRAMDATA%/"},
}

var userTemplates = map[Platform][]string{
	PlatformLinux:   {"${XDG_DATA_HOME}/", "${XDG_CONFIG_HOME}/"},
	PlatformDarwin:  {"${HOME}/Library/Application Support/", "${HOME}/Documents/"},
	PlatformWindows: {"%APPDATA%/", "%USERPROFILE%/Documents/"},
}

// dataDirsTemplate is expanded once and split into one location per entry.
const dataDirsTemplate = "${XDG_DATA_DIRS}"
