package inventory

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/resindex/internal/errors"
	"github.com/thoreinstein/resindex/internal/location"
	"github.com/thoreinstein/resindex/internal/logging"
	"github.com/thoreinstein/resindex/internal/resource"
	"github.com/thoreinstein/resindex/internal/store"
)

// Resolver produces the locations to scan.
type Resolver interface {
	Resolve() []location.Location
}

// LocationResult is the outcome of one location during a refresh.
type LocationResult struct {
	Location location.Location `json:"location" yaml:"location" toml:"location"`
	Count    int               `json:"count" yaml:"count" toml:"count"`
	Skipped  bool              `json:"skipped,omitempty" yaml:"skipped,omitempty" toml:"skipped,omitempty"`
	Err      error             `json:"-" yaml:"-" toml:"-"`
}

// Summary reports a refresh.
type Summary struct {
	Locations []LocationResult
	Total     int
	ByTier    map[resource.Tier]int
	ByType    map[resource.Type]int
	Errors    []*resource.ScanAccessError
	Duration  time.Duration
}

// Service keeps a store in sync with the resolved locations.
type Service struct {
	resolver    Resolver
	scanner     *resource.Scanner
	store       *store.Store
	logger      *slog.Logger
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithScanner sets the scanner. Defaults to resource.NewScanner().
func WithScanner(sc *resource.Scanner) Option {
	return func(s *Service) { s.scanner = sc }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithConcurrency bounds the number of locations scanned at once. Defaults
// to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a Service filling st from the locations of resolver.
func New(resolver Resolver, st *store.Store, opts ...Option) *Service {
	s := &Service{
		resolver:    resolver,
		store:       st,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	if s.scanner == nil {
		s.scanner = resource.NewScanner(resource.WithLogger(s.logger))
	}
	return s
}

// Store returns the store the service fills.
func (s *Service) Store() *store.Store {
	return s.store
}

// Refresh resolves locations and rescans them. See RefreshLocations.
func (s *Service) Refresh(ctx context.Context) (*Summary, error) {
	return s.RefreshLocations(ctx, s.resolver.Resolve())
}

// RefreshLocations replaces the store contents with the resources of locs.
// Locations that are disabled or missing are skipped. Scan failures are
// collected in the summary rather than returned; the error is non-nil only
// when ctx ends the refresh, in which case the store is left untouched.
func (s *Service) RefreshLocations(ctx context.Context, locs []location.Location) (*Summary, error) {
	start := time.Now()
	results := make([]LocationResult, len(locs))
	found := make([][]resource.DiscoveredResource, len(locs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, loc := range locs {
		results[i].Location = loc
		if !loc.Scannable() {
			results[i].Skipped = true
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rs, err := s.scanner.CollectAll(loc.Path, loc.Tier, loc.Path)
			found[i] = rs
			results[i].Count = len(rs)
			results[i].Err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "refreshing inventory")
	}

	s.store.Clear()
	sum := &Summary{
		Locations: results,
		ByTier:    make(map[resource.Tier]int),
		ByType:    make(map[resource.Type]int),
	}
	var all []resource.DiscoveredResource
	for i, rs := range found {
		all = append(all, rs...)
		if err := results[i].Err; err != nil {
			var accessErr *resource.ScanAccessError
			if errors.As(err, &accessErr) {
				sum.Errors = append(sum.Errors, accessErr)
			}
		}
	}
	s.store.AddResources(all)

	for _, t := range s.store.AvailableTypes() {
		for _, tier := range resource.AllTiers() {
			if n := s.store.CountByTypeAndTier(t, tier); n > 0 {
				sum.ByTier[tier] += n
				sum.ByType[t] += n
			}
		}
	}
	sum.Total = s.store.TotalCount()
	sum.Duration = time.Since(start)

	s.logger.Info("inventory refreshed",
		"locations", len(locs),
		"resources", sum.Total,
		"errors", len(sum.Errors),
		"duration", sum.Duration,
	)
	return sum, nil
}
