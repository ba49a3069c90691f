package core

import "context"

// Repository defines the contract for storing and retrieving notes.
// Adapters keep the core independent of the underlying store.
type Repository interface {
	// Initialize opens the connection and verifies that the store is reachable.
	Initialize(ctx context.Context) error

	// Save inserts a note and returns it with the store-assigned ID.
	Save(ctx context.Context, n Note) (Note, error)

	// List returns all notes in the store's natural order.
	List(ctx context.Context) ([]Note, error)

	// Close releases the connection.
	Close(ctx context.Context) error
}

// Watchable defines an interface for repositories that can stream changes.
type Watchable interface {
	// Watch emits an Event per change until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context) (<-chan Event, error)
}
