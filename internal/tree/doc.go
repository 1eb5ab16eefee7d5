// Package tree derives a hierarchical index of stored resources for
// presentation: root, tiers, locations or libraries, then resources.
//
// Nodes live in an arena and are addressed by NodeID. The index is rebuilt
// from store snapshots whenever the store changes; readers always see one
// complete generation.
package tree
