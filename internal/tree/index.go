package tree

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/text/cases"

	"github.com/thoreinstein/resindex/internal/logging"
	"github.com/thoreinstein/resindex/internal/resource"
	"github.com/thoreinstein/resindex/internal/store"
)

// Source is the store surface the index reads from.
type Source interface {
	AllResources() []resource.DiscoveredResource
	Subscribe(fn store.Subscriber) (unsubscribe func())
}

// arena is one immutable generation of the tree.
type arena struct {
	nodes  []Node
	byPath map[string]NodeID
	leaves int
}

// Index is a tree view over a Source, rebuilt on every change batch.
type Index struct {
	src         Source
	logger      *slog.Logger
	unsubscribe func()

	// rebuild orders concurrent rebuilds so a stale snapshot never
	// replaces a newer one.
	rebuild sync.Mutex

	mu         sync.RWMutex
	cur        *arena
	state      State
	generation uint64
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the index logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) { ix.logger = logger }
}

// New builds an index over src and keeps it current until Close.
func New(src Source, opts ...Option) *Index {
	ix := &Index{src: src}
	for _, opt := range opts {
		opt(ix)
	}
	ix.logger = logging.OrDiscard(ix.logger)

	// Subscribe before the first build so no change can fall between them.
	ix.unsubscribe = src.Subscribe(func([]store.Event) { ix.Rebuild() })
	ix.Rebuild()
	return ix
}

// Close stops following store changes. The last generation stays readable.
func (ix *Index) Close() {
	if ix.unsubscribe != nil {
		ix.unsubscribe()
	}
}

// Rebuild derives a new generation from the source and swaps it in.
func (ix *Index) Rebuild() {
	ix.rebuild.Lock()
	defer ix.rebuild.Unlock()

	a := build(ix.src.AllResources())

	ix.mu.Lock()
	ix.cur = a
	ix.generation++
	switch {
	case ix.state == StateEmpty && a.leaves > 0:
		ix.state = StatePopulated
	case ix.state == StatePopulated && a.leaves == 0:
		ix.state = StateEmpty
	}
	gen, state := ix.generation, ix.state
	ix.mu.Unlock()

	ix.logger.Debug("resource tree rebuilt", "generation", gen, "leaves", a.leaves, "state", state)
}

// build lays out root, tier, group and leaf nodes for rs.
func build(rs []resource.DiscoveredResource) *arena {
	a := &arena{byPath: make(map[string]NodeID, len(rs))}
	root := a.add(Node{Kind: KindRoot, Parent: InvalidNode})

	type groupKey struct {
		kind  Kind
		label string
		key   string
	}
	byTier := make(map[resource.Tier]map[groupKey][]resource.DiscoveredResource)
	for _, r := range rs {
		gk := groupKey{kind: KindLocation, label: r.LocationKey, key: r.LocationKey}
		if lib, ok := r.LibraryName(); ok {
			gk = groupKey{kind: KindLibrary, label: lib}
		}
		if byTier[r.Tier] == nil {
			byTier[r.Tier] = make(map[groupKey][]resource.DiscoveredResource)
		}
		byTier[r.Tier][gk] = append(byTier[r.Tier][gk], r)
	}

	fold := cases.Fold()
	for _, tier := range resource.AllTiers() {
		groups, ok := byTier[tier]
		if !ok {
			continue
		}
		tierID := a.add(Node{Kind: KindTier, Label: tier.Title(), Tier: tier, Parent: root})

		keys := make([]groupKey, 0, len(groups))
		for gk := range groups {
			keys = append(keys, gk)
		}
		slices.SortFunc(keys, func(x, y groupKey) int {
			return cmp.Or(
				cmp.Compare(fold.String(x.label), fold.String(y.label)),
				cmp.Compare(x.kind, y.kind),
				cmp.Compare(x.label, y.label),
			)
		})

		for _, gk := range keys {
			groupID := a.add(Node{Kind: gk.kind, Label: gk.label, Tier: tier, LocationKey: gk.key, Parent: tierID})

			leaves := groups[gk]
			slices.SortFunc(leaves, func(x, y resource.DiscoveredResource) int {
				return cmp.Or(
					cmp.Compare(fold.String(x.Name), fold.String(y.Name)),
					cmp.Compare(x.Path, y.Path),
				)
			})
			for _, r := range leaves {
				id := a.add(Node{
					Kind:        KindResource,
					Label:       r.Name,
					Tier:        tier,
					LocationKey: r.LocationKey,
					Resource:    r,
					Parent:      groupID,
				})
				a.byPath[r.Path] = id
				a.leaves++
			}
		}
	}
	return a
}

func (a *arena) add(n Node) NodeID {
	id := NodeID(len(a.nodes))
	n.ID = id
	a.nodes = append(a.nodes, n)
	if n.Parent != InvalidNode {
		a.nodes[n.Parent].Children = append(a.nodes[n.Parent].Children, id)
	}
	return id
}

func (a *arena) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(a.nodes)
}

// snapshot returns the current generation. Arenas are never modified after
// they are built, so callers may read it without holding the lock.
func (ix *Index) snapshot() *arena {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.cur
}

// Root returns the root node id.
func (ix *Index) Root() NodeID {
	return 0
}

// Node returns a copy of the node with id.
func (ix *Index) Node(id NodeID) (Node, bool) {
	a := ix.snapshot()
	if !a.valid(id) {
		return Node{}, false
	}
	n := a.nodes[id]
	n.Children = slices.Clone(n.Children)
	return n, true
}

// Children returns the child ids of id in display order.
func (ix *Index) Children(id NodeID) []NodeID {
	a := ix.snapshot()
	if !a.valid(id) {
		return nil
	}
	return slices.Clone(a.nodes[id].Children)
}

// Parent returns the parent of id, or InvalidNode for the root and unknown
// ids.
func (ix *Index) Parent(id NodeID) NodeID {
	a := ix.snapshot()
	if !a.valid(id) {
		return InvalidNode
	}
	return a.nodes[id].Parent
}

// RowCount returns the number of children of id.
func (ix *Index) RowCount(id NodeID) int {
	a := ix.snapshot()
	if !a.valid(id) {
		return 0
	}
	return len(a.nodes[id].Children)
}

// Data returns the text shown for id in column.
func (ix *Index) Data(id NodeID, column Column) string {
	a := ix.snapshot()
	if !a.valid(id) {
		return ""
	}
	n := a.nodes[id]
	switch column {
	case ColumnName:
		return n.Label
	case ColumnCategory:
		if n.Kind == KindResource {
			return n.Resource.Category
		}
	case ColumnPath:
		switch n.Kind {
		case KindResource:
			return n.Resource.Path
		case KindLocation:
			return n.LocationKey
		}
	}
	return ""
}

// FindByPath returns the leaf for a resource path.
func (ix *Index) FindByPath(path string) (NodeID, bool) {
	id, ok := ix.snapshot().byPath[path]
	if !ok {
		return InvalidNode, false
	}
	return id, true
}

// LeafCount returns the number of resource nodes.
func (ix *Index) LeafCount() int {
	return ix.snapshot().leaves
}

// State returns whether the index currently holds resources.
func (ix *Index) State() State {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.state
}

// Generation counts rebuilds since New.
func (ix *Index) Generation() uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.generation
}

// Walk visits nodes depth-first in display order, starting at the root with
// depth 0. Returning false from fn skips the node's children.
func (ix *Index) Walk(fn func(n Node, depth int) bool) {
	a := ix.snapshot()
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		n := a.nodes[id]
		children := n.Children
		n.Children = slices.Clone(children)
		if !fn(n, depth) {
			return
		}
		for _, c := range children {
			visit(c, depth+1)
		}
	}
	visit(0, 0)
}
