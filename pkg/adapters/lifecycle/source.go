// Package lifecycle exposes note change streams as lifecycle sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/notekeeper/mongonote/pkg/core"
)

type noteSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	accept func(core.Event) bool
}

// SourceOption configures a note source.
type SourceOption func(*noteSource)

// WithFilter drops events for which accept returns false.
func WithFilter(accept func(core.Event) bool) SourceOption {
	return func(s *noteSource) {
		s.accept = accept
	}
}

// NewSource creates a lifecycle.Source that re-emits note change events.
// The output channel closes when the input closes or the context passed to Start ends.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &noteSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.accept != nil && !s.accept(e) {
					continue
				}
				// core.Event satisfies lifecycle.Event through String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
