// Package mongonote lists and records short notes kept in a MongoDB collection.
//
// It wires the domain service in pkg/core to the MongoDB adapter, following a
// ports-and-adapters layout: the core never imports the driver, and any
// core.Repository can be injected in its place.
//
// Usage:
//
//	target := mongonote.DefaultTarget(password)
//	svc, err := mongonote.New(ctx, target.URI(), mongonote.WithReadOnly(true))
//	if err != nil {
//		return err
//	}
//	defer svc.Close(ctx)
//
//	notes, err := svc.ListNotes(ctx, core.ListOptions{})
package mongonote

import (
	"context"
	"log/slog"
	"time"

	"github.com/notekeeper/mongonote/internal/platform"
	"github.com/notekeeper/mongonote/pkg/core"
)

// --- Connection ---

// Target describes the deployment a connection string points at.
type Target = platform.Target

// DefaultTarget returns the hosted notes cluster target for password.
func DefaultTarget(password string) Target {
	return platform.DefaultTarget(password)
}

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithLogger sets the logger for the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithReadOnly rejects writes with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDatabase overrides the database named in the connection string.
func WithDatabase(name string) Option {
	return platform.WithDatabase(name)
}

// WithCollection sets the collection holding notes.
func WithCollection(name string) Option {
	return platform.WithCollection(name)
}

// WithEventBuffer allows specifying the size of the watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithConnectTimeout bounds connection and server selection.
func WithConnectTimeout(d time.Duration) Option {
	return platform.WithConnectTimeout(d)
}

// WithWatcherErrorHandler registers a callback for change stream errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New connects to uri and returns a ready Service. The caller must Close it.
func New(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	return platform.New(ctx, uri, opts...)
}

// Init opens a repository without wrapping it in a Service.
func Init(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	return platform.Init(ctx, uri, opts...)
}
