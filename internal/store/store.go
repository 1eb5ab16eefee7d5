package store

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/thoreinstein/resindex/internal/logging"
	"github.com/thoreinstein/resindex/internal/resource"
)

// Scanner is the part of resource.Scanner the store drives.
type Scanner interface {
	CollectAll(basePath string, tier resource.Tier, locationKey string) ([]resource.DiscoveredResource, error)
	CollectType(basePath string, t resource.Type, tier resource.Tier, locationKey string) ([]resource.DiscoveredResource, error)
}

// partition keeps one type's resources in insertion order.
type partition struct {
	items []resource.DiscoveredResource
	pos   map[string]int
}

func newPartition() *partition {
	return &partition{pos: make(map[string]int)}
}

func (p *partition) remove(path string) bool {
	i, ok := p.pos[path]
	if !ok {
		return false
	}
	p.items = slices.Delete(p.items, i, i+1)
	delete(p.pos, path)
	for j := i; j < len(p.items); j++ {
		p.pos[p.items[j].Path] = j
	}
	return true
}

// Store is an in-memory, type-partitioned resource inventory. A path is held
// at most once; adding a known path replaces the existing entry in place.
type Store struct {
	mu         sync.RWMutex
	partitions map[resource.Type]*partition
	byPath     map[string]resource.Type

	// Event delivery is ordered by a ticket taken under mu, so subscribers
	// see batches in the order mutations were applied without mu being held
	// while they run.
	nextTicket uint64
	turn       uint64
	turnMu     sync.Mutex
	turnCond   *sync.Cond

	subMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int

	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		partitions: make(map[resource.Type]*partition),
		byPath:     make(map[string]resource.Type),
		subs:       make(map[int]Subscriber),
	}
	s.turnCond = sync.NewCond(&s.turnMu)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	return s
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// mutate runs fn under the write lock and delivers the events it returns
// once the lock is released.
func (s *Store) mutate(fn func() []Event) {
	s.mu.Lock()
	events := fn()
	ticket := s.nextTicket
	s.nextTicket++
	s.mu.Unlock()

	s.turnMu.Lock()
	for s.turn != ticket {
		s.turnCond.Wait()
	}
	s.turnMu.Unlock()
	defer func() {
		s.turnMu.Lock()
		s.turn++
		s.turnCond.Broadcast()
		s.turnMu.Unlock()
	}()

	if len(events) == 0 {
		return
	}

	s.subMu.Lock()
	ids := slices.Sorted(maps.Keys(s.subs))
	subs := make([]Subscriber, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.subMu.Unlock()

	for _, sub := range subs {
		sub(events)
	}
}

// AddResource adds r, replacing any resource with the same path.
func (s *Store) AddResource(r resource.DiscoveredResource) {
	s.AddResources([]resource.DiscoveredResource{r})
}

// AddResources adds rs in order under a single lock and publishes one
// batch of EventAdded.
func (s *Store) AddResources(rs []resource.DiscoveredResource) {
	if len(rs) == 0 {
		return
	}
	s.mutate(func() []Event {
		events := make([]Event, 0, len(rs))
		for _, r := range rs {
			s.insertLocked(r)
			events = append(events, added(r))
		}
		return events
	})
	s.logger.Debug("resources added", "count", len(rs))
}

func (s *Store) insertLocked(r resource.DiscoveredResource) {
	if old, ok := s.byPath[r.Path]; ok {
		p := s.partitions[old]
		if old == r.Type {
			p.items[p.pos[r.Path]] = r
			return
		}
		p.remove(r.Path)
		if len(p.items) == 0 {
			delete(s.partitions, old)
		}
	}

	p, ok := s.partitions[r.Type]
	if !ok {
		p = newPartition()
		s.partitions[r.Type] = p
	}
	p.pos[r.Path] = len(p.items)
	p.items = append(p.items, r)
	s.byPath[r.Path] = r.Type
}

// ScanAndStore scans every type below basePath and stores the results. The
// scan runs without holding the store lock. Resources found before a scan
// error are still stored; the error is returned.
func (s *Store) ScanAndStore(sc Scanner, basePath string, tier resource.Tier, locationKey string) (int, error) {
	rs, err := sc.CollectAll(basePath, tier, locationKey)
	s.AddResources(rs)
	return len(rs), err
}

// ScanTypeAndStore scans the folder of one type below basePath and stores
// the results.
func (s *Store) ScanTypeAndStore(sc Scanner, basePath string, t resource.Type, tier resource.Tier, locationKey string) (int, error) {
	rs, err := sc.CollectType(basePath, t, tier, locationKey)
	s.AddResources(rs)
	return len(rs), err
}

// filter returns copies of the resources of type t accepted by keep.
func (s *Store) filter(t resource.Type, keep func(resource.DiscoveredResource) bool) []resource.DiscoveredResource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.partitions[t]
	if !ok {
		return nil
	}
	var out []resource.DiscoveredResource
	for _, r := range p.items {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ResourcesOfType returns the resources of type t in insertion order.
func (s *Store) ResourcesOfType(t resource.Type) []resource.DiscoveredResource {
	return s.filter(t, nil)
}

// ResourcesOfTypeAndTier returns the resources of type t found in tier.
func (s *Store) ResourcesOfTypeAndTier(t resource.Type, tier resource.Tier) []resource.DiscoveredResource {
	return s.filter(t, func(r resource.DiscoveredResource) bool { return r.Tier == tier })
}

// ResourcesByLocation returns the resources of type t scanned from the
// location identified by key.
func (s *Store) ResourcesByLocation(t resource.Type, key string) []resource.DiscoveredResource {
	return s.filter(t, func(r resource.DiscoveredResource) bool { return r.LocationKey == key })
}

// ResourcesByCategory returns the resources of type t in category.
func (s *Store) ResourcesByCategory(t resource.Type, category string) []resource.DiscoveredResource {
	return s.filter(t, func(r resource.DiscoveredResource) bool { return r.Category == category })
}

// AllResources returns every resource, grouped by type in enumeration
// order and in insertion order within a type.
func (s *Store) AllResources() []resource.DiscoveredResource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]resource.DiscoveredResource, 0, len(s.byPath))
	for _, t := range resource.AllTypes() {
		if p, ok := s.partitions[t]; ok {
			out = append(out, p.items...)
		}
	}
	return out
}

// FindByPath returns the resource stored under path.
func (s *Store) FindByPath(path string) (resource.DiscoveredResource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byPath[path]
	if !ok {
		return resource.DiscoveredResource{}, false
	}
	p := s.partitions[t]
	return p.items[p.pos[path]], true
}

// CountByType returns the number of resources of type t.
func (s *Store) CountByType(t resource.Type) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.partitions[t]; ok {
		return len(p.items)
	}
	return 0
}

// CountByTypeAndTier returns the number of resources of type t in tier.
func (s *Store) CountByTypeAndTier(t resource.Type, tier resource.Tier) int {
	return len(s.ResourcesOfTypeAndTier(t, tier))
}

// TotalCount returns the number of stored resources.
func (s *Store) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byPath)
}

// IsEmpty reports whether the store holds no resources.
func (s *Store) IsEmpty() bool {
	return s.TotalCount() == 0
}

// HasType reports whether any resource of type t is stored.
func (s *Store) HasType(t resource.Type) bool {
	return s.CountByType(t) > 0
}

// AvailableTypes returns the types with at least one resource, in
// enumeration order.
func (s *Store) AvailableTypes() []resource.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []resource.Type
	for _, t := range resource.AllTypes() {
		if p, ok := s.partitions[t]; ok && len(p.items) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// CategoriesForType returns the sorted, distinct non-empty categories of
// type t.
func (s *Store) CategoriesForType(t resource.Type) []string {
	var out []string
	for _, r := range s.ResourcesOfType(t) {
		if r.Category != "" {
			out = append(out, r.Category)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// LocationsForType returns the distinct location keys of type t in the
// order they were first stored.
func (s *Store) LocationsForType(t resource.Type) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.ResourcesOfType(t) {
		if !seen[r.LocationKey] {
			seen[r.LocationKey] = true
			out = append(out, r.LocationKey)
		}
	}
	return out
}

// Clear removes every resource and publishes Cleared(TypeUnknown).
func (s *Store) Clear() {
	s.mutate(func() []Event {
		s.partitions = make(map[resource.Type]*partition)
		s.byPath = make(map[string]resource.Type)
		return []Event{cleared(resource.TypeUnknown)}
	})
	s.logger.Debug("store cleared")
}

// ClearType removes every resource of type t and publishes Cleared(t).
func (s *Store) ClearType(t resource.Type) {
	s.mutate(func() []Event {
		if p, ok := s.partitions[t]; ok {
			for _, r := range p.items {
				delete(s.byPath, r.Path)
			}
			delete(s.partitions, t)
		}
		return []Event{cleared(t)}
	})
	s.logger.Debug("store type cleared", "type", t)
}

// ClearTier removes every resource found in tier and publishes one
// EventRemoved per path.
func (s *Store) ClearTier(tier resource.Tier) {
	s.mutate(func() []Event {
		var events []Event
		for _, t := range resource.AllTypes() {
			p, ok := s.partitions[t]
			if !ok {
				continue
			}
			kept := p.items[:0]
			for _, r := range p.items {
				if r.Tier == tier {
					delete(s.byPath, r.Path)
					events = append(events, removed(r.Path, r.Type))
					continue
				}
				kept = append(kept, r)
			}
			if len(kept) == 0 {
				delete(s.partitions, t)
				continue
			}
			p.items = kept
			clear(p.pos)
			for i, r := range kept {
				p.pos[r.Path] = i
			}
		}
		return events
	})
	s.logger.Debug("store tier cleared", "tier", tier)
}

// RemoveByPath removes the resource stored under path and reports whether
// there was one.
func (s *Store) RemoveByPath(path string) bool {
	var ok bool
	s.mutate(func() []Event {
		var t resource.Type
		t, ok = s.byPath[path]
		if !ok {
			return nil
		}
		p := s.partitions[t]
		p.remove(path)
		if len(p.items) == 0 {
			delete(s.partitions, t)
		}
		delete(s.byPath, path)
		return []Event{removed(path, t)}
	})
	return ok
}
