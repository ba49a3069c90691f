package platform

import (
	"context"

	"github.com/notekeeper/mongonote/pkg/core"
)

// New opens the repository and wires the domain service around it.
//
//	svc, err := platform.New(ctx, target.URI(), platform.WithReadOnly(true))
func New(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}

	// We also need to parse options here to get the logger for wiring
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var svcOpts []core.ServiceOption
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithServiceLogger(o.logger))
	}
	if size, ok := o.config["event_buffer"].(int); ok {
		svcOpts = append(svcOpts, core.WithEventBufferSize(size))
	}

	return core.NewService(repo, svcOpts...), nil
}
