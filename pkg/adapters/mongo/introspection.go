package mongo

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	URI           string     `json:"uri"`
	Database      string     `json:"database"`
	Collection    string     `json:"collection"`
	ReadOnly      bool       `json:"read_only"`
	Connected     bool       `json:"connected"`
	ConnectedAt   *time.Time `json:"connected_at,omitempty"`
	WatcherActive bool       `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		URI:           Redact(r.config.URI),
		Database:      r.config.Database,
		Collection:    r.config.Collection,
		ReadOnly:      r.config.ReadOnly,
		Connected:     r.client != nil,
		ConnectedAt:   r.connectedAt,
		WatcherActive: r.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "mongo"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
