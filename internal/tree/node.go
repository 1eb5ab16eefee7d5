package tree

import "github.com/thoreinstein/resindex/internal/resource"

// NodeID addresses a node within one generation of an Index.
type NodeID int

// InvalidNode is returned where no node exists.
const InvalidNode NodeID = -1

// Kind is the role of a node.
type Kind int

const (
	KindRoot Kind = iota
	KindTier
	KindLocation
	KindLibrary
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindTier:
		return "tier"
	case KindLocation:
		return "location"
	case KindLibrary:
		return "library"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Column selects a presentation column for Index.Data.
type Column int

const (
	ColumnName Column = iota
	ColumnCategory
	ColumnPath
)

// State is the population state of an Index.
type State int

const (
	StateEmpty State = iota
	StatePopulated
)

func (s State) String() string {
	if s == StatePopulated {
		return "populated"
	}
	return "empty"
}

// Node is a copy of one arena entry.
type Node struct {
	ID     NodeID
	Kind   Kind
	Label  string
	Parent NodeID

	// Tier is set for tier nodes and everything below them.
	Tier resource.Tier

	// LocationKey is set for location nodes and resources.
	LocationKey string

	// Resource is set for KindResource only.
	Resource resource.DiscoveredResource

	Children []NodeID
}
