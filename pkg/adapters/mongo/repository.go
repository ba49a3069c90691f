// Package mongo implements core.Repository on top of the official MongoDB driver.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/notekeeper/mongonote/pkg/core"
)

// DefaultCollection is the collection holding notes (the pluralised model name).
const DefaultCollection = "notes"

// ErrNotInitialized is returned when an operation runs before Initialize.
var ErrNotInitialized = errors.New("repository is not initialized")

// Repository implements core.Repository using a MongoDB collection.
type Repository struct {
	config Config

	mu            sync.RWMutex
	client        *driver.Client
	coll          *driver.Collection
	ownsClient    bool
	connectedAt   *time.Time
	watcherActive bool
}

// Config holds the configuration for the MongoDB repository.
type Config struct {
	URI            string
	Database       string // Defaults to the database named in the URI path.
	Collection     string // Defaults to DefaultCollection.
	ReadOnly       bool
	ConnectTimeout time.Duration // Zero keeps the driver defaults.
	EventBuffer    int
	Logger         *slog.Logger
	ErrorHandler   func(error)

	// Client reuses an existing client instead of dialing URI.
	// The repository does not disconnect a client it did not create.
	Client *driver.Client
}

// NewRepository creates a new MongoDB-backed repository. No I/O happens until Initialize.
func NewRepository(config Config) *Repository {
	if config.Database == "" {
		config.Database = DatabaseFromURI(config.URI)
	}
	if config.Collection == "" {
		config.Collection = DefaultCollection
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = core.DefaultEventBuffer
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Repository{config: config}
}

// Initialize connects to the deployment and pings the primary so that
// authentication and network failures surface here.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return nil
	}
	if r.config.Database == "" {
		return fmt.Errorf("no database name in %s", Redact(r.config.URI))
	}

	client := r.config.Client
	owns := false
	if client == nil {
		opts := options.Client().ApplyURI(r.config.URI)
		if r.config.ConnectTimeout > 0 {
			opts.SetConnectTimeout(r.config.ConnectTimeout)
			opts.SetServerSelectionTimeout(r.config.ConnectTimeout)
		}

		r.config.Logger.Debug("connecting", "uri", Redact(r.config.URI))
		c, err := driver.Connect(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		client = c
		owns = true
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if owns {
			_ = client.Disconnect(ctx)
		}
		return fmt.Errorf("failed to reach %s: %w", Redact(r.config.URI), err)
	}

	now := time.Now()
	r.client = client
	r.ownsClient = owns
	r.coll = client.Database(r.config.Database).Collection(r.config.Collection)
	r.connectedAt = &now

	r.config.Logger.Debug("connected", "database", r.config.Database, "collection", r.config.Collection)
	return nil
}

// Save inserts a note. The returned note carries the store-assigned ID.
func (r *Repository) Save(ctx context.Context, n core.Note) (core.Note, error) {
	if r.config.ReadOnly {
		return core.Note{}, core.ErrReadOnly
	}

	coll, err := r.collection()
	if err != nil {
		return core.Note{}, err
	}

	doc, err := fromNote(n)
	if err != nil {
		return core.Note{}, err
	}

	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to insert note: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid.Hex()
	} else {
		n.ID = coerceID(res.InsertedID)
	}
	n.Date = doc.Date
	return n, nil
}

// List returns every note in the collection's natural order. No filter or sort is sent.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]core.Note, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode note: %w", err)
		}
		notes = append(notes, decodeNote(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	return notes, nil
}

// Close disconnects the client if this repository created it.
func (r *Repository) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}

	var err error
	if r.ownsClient {
		err = r.client.Disconnect(ctx)
	}
	r.client = nil
	r.coll = nil
	r.connectedAt = nil
	if err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

func (r *Repository) collection() (*driver.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.coll == nil {
		return nil, ErrNotInitialized
	}
	return r.coll, nil
}

// DatabaseFromURI returns the database named in the path of a connection string.
func DatabaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// Redact hides the password of a connection string for logging.
func Redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<invalid uri>"
	}
	return u.Redacted()
}
