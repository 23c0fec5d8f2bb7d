package core

import "context"

// Store is the key-value slot the repository persists into.
// The repository reads and writes a single key holding the JSON encoding of every note.
// Implementations report a missing key with ok == false and a nil error.
type Store interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
}

// Watchable is implemented by stores that can observe external changes to a key.
type Watchable interface {
	// Watch emits an Event each time the value under key changes outside this process.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// EventType represents the kind of change observed on a slot.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a slot observed by a watcher.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
