package store

import "github.com/thoreinstein/resindex/internal/resource"

// EventKind identifies a store change.
type EventKind int

const (
	// EventAdded reports a resource that was added or replaced.
	EventAdded EventKind = iota
	// EventRemoved reports a resource path that left the store.
	EventRemoved
	// EventCleared reports a bulk clear. Type is TypeUnknown when every
	// partition was cleared.
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is one store change. Which fields are set depends on Kind.
type Event struct {
	Kind     EventKind
	Resource resource.DiscoveredResource // EventAdded
	Path     string                      // EventAdded, EventRemoved
	Type     resource.Type               // all kinds
}

func added(r resource.DiscoveredResource) Event {
	return Event{Kind: EventAdded, Resource: r, Path: r.Path, Type: r.Type}
}

func removed(path string, t resource.Type) Event {
	return Event{Kind: EventRemoved, Path: path, Type: t}
}

func cleared(t resource.Type) Event {
	return Event{Kind: EventCleared, Type: t}
}

// Subscriber receives the events of one mutation, in order. It runs on the
// mutating goroutine after the store is unlocked and must not mutate the
// store.
type Subscriber func(events []Event)
