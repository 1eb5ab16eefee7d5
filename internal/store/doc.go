// Package store holds discovered resources in memory, partitioned by type.
//
// A Store is safe for concurrent use. Queries return copies taken under a
// read lock. Mutations publish change events to subscribers after the write
// lock is released, so a subscriber may query the store it listens to.
package store
