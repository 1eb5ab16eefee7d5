package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/resindex/internal/errors"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is empty or malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Home returns the user's home directory, or "" if it cannot be determined.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// DataDirs returns the XDG shared data directories in precedence order.
func DataDirs() []string {
	return append([]string(nil), xdg.DataDirs...)
}

// ExecutableDir returns the directory holding the running binary with
// symlinks resolved, or "" if it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// DefaultVariables returns the fallback table consulted after the caller's
// overrides and the process environment.
func DefaultVariables() Env {
	env := Env{
		"XDG_DATA_HOME":   DataHome(),
		"XDG_CONFIG_HOME": ConfigHome(),
		"XDG_DATA_DIRS":   strings.Join(DataDirs(), string(os.PathListSeparator)),
	}
	if home := Home(); home != "" {
		env["HOME"] = home
		env["USERPROFILE"] = home
	}
	if dir := ExecutableDir(); dir != "" {
		env["EXEDIR"] = dir
	}
	return env
}

// AppendFolder applies the folder-append rule: when expanded ends with a
// separator, folder is appended; otherwise expanded is already a complete
// path and is returned unchanged.
func AppendFolder(expanded, folder string) string {
	if strings.HasSuffix(expanded, "/") || strings.HasSuffix(expanded, `\`) {
		return expanded + folder
	}
	return expanded
}

// CleanPath converts p to the platform separator, resolves "." and ".."
// elements and makes it absolute. Trailing separators are dropped.
func CleanPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" || strings.ContainsRune(p, '\x00') {
		return "", errors.Wrapf(ErrInvalidPath, "%q", p)
	}
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", p)
	}
	return abs, nil
}
