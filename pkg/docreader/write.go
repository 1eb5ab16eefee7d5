package docreader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/resindex/internal/errors"
)

// DefaultPerm is the mode of files written without an explicit one.
const DefaultPerm os.FileMode = 0o644

// ErrUnsupportedFormat indicates a file extension Write cannot encode.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// WriteFile writes data to path atomically using a temp file + rename.
// The caller is responsible for ensuring the parent directory exists.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Same directory, so the rename stays on one file system.
	tmp, err := os.CreateTemp(dir, ".resindex-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Still present only when the rename did not happen.
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// MarshalJSON encodes v with 2-space indentation and a trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return append(data, '\n'), nil
}

// MarshalYAML encodes v as YAML with 2-space indentation.
func MarshalYAML(v any) (data []byte, err error) {
	// yaml.v3 panics on values it cannot represent.
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, errors.Newf("marshaling YAML: %v", r)
		}
	}()

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	return []byte(b.String()), nil
}

// MarshalTOML encodes v as TOML. The top-level value must be a table.
func MarshalTOML(v any) ([]byte, error) {
	data, err := toml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling TOML")
	}
	return data, nil
}

// WriteJSON writes v as indented JSON to path atomically.
func WriteJSON(path string, v any) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	return WriteFile(path, data, DefaultPerm)
}

// WriteYAML writes v as YAML to path atomically.
func WriteYAML(path string, v any) error {
	data, err := MarshalYAML(v)
	if err != nil {
		return err
	}
	return WriteFile(path, data, DefaultPerm)
}

// WriteTOML writes v as TOML to path atomically.
func WriteTOML(path string, v any) error {
	data, err := MarshalTOML(v)
	if err != nil {
		return err
	}
	return WriteFile(path, data, DefaultPerm)
}

// Write picks the encoding from the extension of path: .json, .yaml, .yml
// or .toml.
func Write(path string, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteJSON(path, v)
	case ".yaml", ".yml":
		return WriteYAML(path, v)
	case ".toml":
		return WriteTOML(path, v)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
}
