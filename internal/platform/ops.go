package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/notekeeper/mongonote/pkg/adapters/mongo"
	"github.com/notekeeper/mongonote/pkg/core"
)

// Init opens the repository selected by the options.
// The 'uri' argument is adapter-specific (a connection string for 'mongo').
//
// An injected repository is returned as is; the caller owns its lifecycle.
func Init(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	switch o.adapter {
	case "mongo":
		repo = newMongo(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// newMongo maps the option bag onto the MongoDB adapter configuration.
func newMongo(uri string, o *options) core.Repository {
	cfg := mongo.Config{
		URI:    uri,
		Logger: o.logger,
	}
	cfg.ReadOnly, _ = o.config["read_only"].(bool)
	cfg.Database, _ = o.config["database"].(string)
	cfg.Collection, _ = o.config["collection"].(string)
	cfg.EventBuffer, _ = o.config["event_buffer"].(int)
	cfg.ErrorHandler, _ = o.config["watcher_error_handler"].(func(error))
	cfg.ConnectTimeout, _ = o.config["connect_timeout"].(time.Duration)

	if o.logger != nil {
		o.logger.Debug("opening mongo repository", "uri", mongo.Redact(uri), "read_only", cfg.ReadOnly)
	}
	return mongo.NewRepository(cfg)
}
