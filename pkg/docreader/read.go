package docreader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/thoreinstein/resindex/internal/errors"
)

// MaxFileSize is the maximum document size read (1MB).
const MaxFileSize = 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// SyntaxError describes malformed document content.
type SyntaxError struct {
	Path   string
	Line   int // 1-based
	Column int // 1-based, in bytes
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ReadFileWithLimit reads a file up to MaxFileSize.
// It returns ErrFileTooLarge if the file is larger than the limit.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast when the size is already known to be too large.
	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// ReadFile parses the JSON or JSONC document at path into generic values
// (maps, slices, strings, float64, bool, nil).
func ReadFile(path string) (any, error) {
	var v any
	if err := Decode(path, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode parses the JSON or JSONC document at path into v.
func Decode(path string, v any) error {
	data, err := ReadFileWithLimit(path)
	if err != nil {
		return err
	}
	return Unmarshal(path, data, v)
}

// Unmarshal parses JSON or JSONC data into v. Path is used for error
// messages only.
func Unmarshal(path string, data []byte, v any) error {
	// jsonc blanks comments and trailing commas in place, so offsets into
	// the converted document are offsets into data.
	plain := jsonc.ToJSON(data)
	if err := json.Unmarshal(plain, v); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			line, col := position(data, syn.Offset-1)
			return &SyntaxError{Path: path, Line: line, Column: col, Offset: syn.Offset, Err: syn}
		}
		var typ *json.UnmarshalTypeError
		if errors.As(err, &typ) {
			line, col := position(data, typ.Offset-1)
			return &SyntaxError{Path: path, Line: line, Column: col, Offset: typ.Offset, Err: typ}
		}
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, off int64) (int, int) {
	if off < 0 {
		off = 0
	}
	if off > int64(len(data)) {
		off = int64(len(data))
	}
	prefix := data[:off]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	col := int(off) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}
