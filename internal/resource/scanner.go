package resource

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/logging"
)

// DefaultBatchSize is the number of directory entries read per batch.
const DefaultBatchSize = 64

// FoundFunc receives each discovered resource before the next directory
// entry is read. Returning ErrStopScan ends the walk without error; any
// other error ends it and is returned by the scan.
type FoundFunc func(r DiscoveredResource) error

// Scanner walks resource locations. It keeps no state between calls, so one
// Scanner may serve concurrent scans of different locations.
type Scanner struct {
	fs         afero.Fs
	types      *TypeTable
	classifier *Classifier
	observer   Observer
	logger     *slog.Logger
	batchSize  int
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithFs sets the file system to scan. Defaults to the OS file system.
func WithFs(fsys afero.Fs) ScannerOption {
	return func(s *Scanner) { s.fs = fsys }
}

// WithTypeTable replaces the built-in type table.
func WithTypeTable(types *TypeTable) ScannerOption {
	return func(s *Scanner) { s.types = types }
}

// WithObserver adds an observer for scan lifecycle notifications.
func WithObserver(o Observer) ScannerOption {
	return func(s *Scanner) { s.observer = o }
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = logger }
}

// WithBatchSize sets how many directory entries are read at a time.
func WithBatchSize(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewScanner creates a Scanner.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		fs:        afero.NewOsFs(),
		types:     DefaultTypes(),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	s.classifier = NewClassifier(s.types)
	s.observer = MultiObserver(logObserver{logger: s.logger}, s.observer)
	return s
}

// Types returns the scanner's type table.
func (s *Scanner) Types() *TypeTable {
	return s.types
}

// ScanLocation scans every top-level type below basePath and returns the
// number of resources delivered to onFound.
//
// A missing or unreadable basePath yields 0 and a *ScanAccessError, which is
// also passed to the observer. Missing type folders are normal and silent.
func (s *Scanner) ScanLocation(basePath string, tier Tier, locationKey string, onFound FoundFunc) (int, error) {
	base, err := s.openBase(basePath, TypeUnknown)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, t := range s.types.TopLevel() {
		n, err := s.scanType(base, t, tier, locationKey, onFound)
		total += n
		if err != nil {
			return total, stopIsSuccess(err)
		}
	}
	return total, nil
}

// ScanLocationForType scans the folder of a single type below basePath.
// Container types scan their sub-types; TypeUnknown is rejected.
func (s *Scanner) ScanLocationForType(basePath string, t Type, tier Tier, locationKey string, onFound FoundFunc) (int, error) {
	if t == TypeUnknown {
		return 0, errors.Wrapf(errors.ErrUnknownType, "cannot scan for %s", t)
	}

	base, err := s.openBase(basePath, t)
	if err != nil {
		return 0, err
	}

	n, err := s.scanType(base, t, tier, locationKey, onFound)
	return n, stopIsSuccess(err)
}

// CollectAll scans every top-level type below basePath and returns the
// resources found. The error is the same as ScanLocation's.
func (s *Scanner) CollectAll(basePath string, tier Tier, locationKey string) ([]DiscoveredResource, error) {
	var out []DiscoveredResource
	_, err := s.ScanLocation(basePath, tier, locationKey, func(r DiscoveredResource) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// CollectType scans a single type below basePath and returns the resources found.
func (s *Scanner) CollectType(basePath string, t Type, tier Tier, locationKey string) ([]DiscoveredResource, error) {
	var out []DiscoveredResource
	_, err := s.ScanLocationForType(basePath, t, tier, locationKey, func(r DiscoveredResource) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// Attachments returns the files next to r that share its stem and carry one
// of its type's attachment extensions, sorted by path.
func (s *Scanner) Attachments(r DiscoveredResource) ([]string, error) {
	if len(s.types.Info(r.Type).Attachments) == 0 {
		return nil, nil
	}

	dir := filepath.Dir(r.Path)
	stem := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.TrimSuffix(name, filepath.Ext(name)) != stem {
			continue
		}
		if s.types.IsAttachment(r.Type, name) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	slices.Sort(out)
	return out, nil
}

// openBase checks that basePath is a readable directory and returns its
// absolute form. Failures are reported to the observer.
func (s *Scanner) openBase(basePath string, t Type) (string, error) {
	base := basePath
	if !filepath.IsAbs(base) {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	base = filepath.Clean(base)

	info, err := s.fs.Stat(base)
	if err != nil {
		if os.IsNotExist(err) {
			return "", s.fail(base, t, ErrLocationNotFound, err)
		}
		return "", s.fail(base, t, ErrLocationUnreadable, err)
	}
	if !info.IsDir() {
		return "", s.fail(base, t, ErrLocationUnreadable, errors.Newf("%s is not a directory", base))
	}

	f, err := s.fs.Open(base)
	if err != nil {
		return "", s.fail(base, t, ErrLocationUnreadable, err)
	}
	f.Close()

	return base, nil
}

func (s *Scanner) fail(path string, t Type, kind, cause error) *ScanAccessError {
	e := &ScanAccessError{Path: path, Type: t, Err: fmt.Errorf("%w: %w", kind, cause)}
	s.observer.ScanFailed(e)
	return e
}

// scanType walks the folder of t below base. Container types recurse into
// their sub-types.
func (s *Scanner) scanType(base string, t Type, tier Tier, locationKey string, onFound FoundFunc) (int, error) {
	if s.types.IsContainer(t) {
		total := 0
		for _, sub := range s.types.Info(t).SubTypes {
			n, err := s.scanType(base, sub, tier, locationKey, onFound)
			total += n
			if err != nil {
				return total, err
			}
		}
		return total, nil
	}

	typeDir := filepath.Join(base, filepath.FromSlash(s.types.Subfolder(t)))
	if ok, _ := afero.DirExists(s.fs, typeDir); !ok {
		return 0, nil
	}

	s.observer.ScanStarted(typeDir, t)
	n, opened, err := s.walk(base, typeDir, t, tier, locationKey, onFound)
	if opened && (err == nil || errors.Is(err, ErrStopScan)) {
		s.observer.ScanCompleted(typeDir, n)
	}
	return n, err
}

// walk visits typeDir breadth-first. Only directory paths are queued; each
// directory is read in batches so a listing is never held in full. opened
// is false when typeDir itself could not be opened, which has already been
// reported as a scan failure.
func (s *Scanner) walk(base, typeDir string, t Type, tier Tier, locationKey string, onFound FoundFunc) (count int, opened bool, err error) {
	recursive := s.types.IsRecursive(t)
	queue := []string{typeDir}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		subdirs, n, ok, err := s.readDir(base, typeDir, dir, t, tier, locationKey, recursive, onFound)
		if dir == typeDir {
			opened = ok
		}
		count += n
		if err != nil {
			return count, opened, err
		}
		queue = append(queue, subdirs...)
	}
	return count, opened, nil
}

// readDir reads one directory. opened reports whether dir could be opened;
// an open failure goes to the observer and is not returned.
func (s *Scanner) readDir(base, typeDir, dir string, t Type, tier Tier, locationKey string, recursive bool, onFound FoundFunc) (subdirs []string, count int, opened bool, err error) {
	f, err := s.fs.Open(dir)
	if err != nil {
		s.fail(dir, t, ErrLocationUnreadable, err)
		return nil, 0, false, nil
	}
	defer f.Close()

	for {
		infos, readErr := f.Readdir(s.batchSize)
		for _, info := range infos {
			name := info.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			full := filepath.Join(dir, name)

			if info.Mode()&fs.ModeSymlink != 0 {
				// Symlinked files are followed; symlinked folders are not,
				// which keeps link cycles out of the walk.
				target, err := s.fs.Stat(full)
				if err != nil || target.IsDir() {
					continue
				}
				info = target
			}

			if info.IsDir() {
				if recursive {
					subdirs = append(subdirs, full)
				}
				continue
			}

			r, ok := s.build(base, typeDir, full, info, t, tier, locationKey)
			if !ok {
				continue
			}

			count++
			s.observer.ResourceFound(r)
			if err := onFound(r); err != nil {
				if errors.Is(err, ErrStopScan) {
					return nil, count, true, ErrStopScan
				}
				return nil, count, true, errors.Wrapf(err, "handling %s", r.Path)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			s.fail(dir, t, ErrLocationUnreadable, readErr)
			break
		}
		if len(infos) == 0 {
			break
		}
	}

	return subdirs, count, true, nil
}

// build turns a file into a DiscoveredResource, or reports false when its
// extension does not belong to the resolved type.
func (s *Scanner) build(base, typeDir, full string, info fs.FileInfo, t Type, tier Tier, locationKey string) (DiscoveredResource, bool) {
	rt := t
	if nested := s.classifier.ClassifyRelative(base, full); nested != t && s.types.CanContain(t, nested) {
		// Flat types nested in a library keep their top-level shape: only
		// files directly inside the type folder count.
		if !s.types.IsRecursive(nested) && !hasSuffix(splitSegments(filepath.Dir(full)), splitSegments(s.types.Subfolder(nested))) {
			return DiscoveredResource{}, false
		}
		rt = nested
	}
	if !s.types.Matches(rt, info.Name()) {
		return DiscoveredResource{}, false
	}

	name := info.Name()
	return DiscoveredResource{
		Path:         full,
		Name:         strings.TrimSuffix(name, filepath.Ext(name)),
		Category:     categoryOf(typeDir, full),
		LocationKey:  locationKey,
		Type:         rt,
		Tier:         tier,
		LastModified: info.ModTime(),
		Size:         info.Size(),
	}, true
}

func hasSuffix(segs, suffix []string) bool {
	return len(suffix) > 0 && len(segs) >= len(suffix) && slices.Equal(segs[len(segs)-len(suffix):], suffix)
}

// categoryOf returns the first folder between typeDir and the file at full.
func categoryOf(typeDir, full string) string {
	rel, err := filepath.Rel(typeDir, filepath.Dir(full))
	if err != nil || rel == "." {
		return ""
	}
	segs := splitSegments(rel)
	if len(segs) == 0 || segs[0] == ".." {
		return ""
	}
	return segs[0]
}

func stopIsSuccess(err error) error {
	if errors.Is(err, ErrStopScan) {
		return nil
	}
	return err
}
