package platform

import (
	"log/slog"
	"time"

	"github.com/notekeeper/mongonote/pkg/core"
)

// options holds the internal configuration for the service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	config     map[string]interface{}
}

// Option defines a functional option for configuring mongonote.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		repository: nil,
		logger:     nil,
		adapter:    "mongo",
		config:     make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. mock).
// If provided, the default MongoDB adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter allows specifying the storage adapter to use by name.
// Defaults to "mongo".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithReadOnly enables read-only mode: Save returns core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDatabase overrides the database named in the connection string.
func WithDatabase(name string) Option {
	return func(o *options) {
		o.config["database"] = name
	}
}

// WithCollection sets the collection holding notes. Defaults to "notes".
func WithCollection(name string) Option {
	return func(o *options) {
		o.config["collection"] = name
	}
}

// WithEventBuffer allows specifying the size of the watch event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithConnectTimeout bounds connection and server selection.
// Zero leaves the driver defaults untouched.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config["connect_timeout"] = d
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while watching,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
