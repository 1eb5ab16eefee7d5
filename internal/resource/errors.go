package resource

import (
	"fmt"

	"github.com/thoreinstein/resindex/internal/errors"
)

// Sentinel errors for scanning.
var (
	// ErrLocationNotFound indicates a scan root does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrLocationUnreadable indicates a scan root or one of its folders
	// exists but cannot be listed.
	ErrLocationUnreadable = errors.New("location unreadable")

	// ErrStopScan may be returned by a FoundFunc to end a walk early.
	// The scan then reports the resources delivered so far and no error.
	ErrStopScan = errors.New("stop scan")
)

// ScanAccessError reports a location or folder that could not be scanned.
type ScanAccessError struct {
	// Path is the directory that could not be read.
	Path string
	// Type is the resource type being scanned, TypeUnknown for a whole location.
	Type Type
	// Err wraps ErrLocationNotFound or ErrLocationUnreadable.
	Err error
}

func (e *ScanAccessError) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.Path, e.Err)
}

func (e *ScanAccessError) Unwrap() error {
	return e.Err
}
