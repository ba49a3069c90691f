package core

import "fmt"

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a note.
// Note is nil for deletions and when the store did not return the document.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
	Note      *Note
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
