// Package location resolves the directories that may hold resources.
//
// Locations come in three tiers. Installation locations ship with the
// application, Machine locations are shared by every user of the host and
// User locations are private. Each tier is built from platform templates
// expanded with paths.Expand, followed by configured extras.
package location
