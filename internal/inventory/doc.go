// Package inventory ties location resolution, scanning and the store
// together: it resolves locations, scans the usable ones concurrently and
// loads the results into a store in resolution order.
package inventory
