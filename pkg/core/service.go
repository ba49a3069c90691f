package core

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultEventBuffer is the size of the buffer between a watcher and its consumer.
const DefaultEventBuffer = 100

// Service handles the business logic for notes.
type Service struct {
	repo            Repository
	logger          *slog.Logger
	eventBufferSize int
	now             func() time.Time
	mu              sync.RWMutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventBufferSize sets the buffer size reported for watch streams.
func WithEventBufferSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// WithClock overrides the time source used to stamp new notes.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		logger:          slog.Default(),
		eventBufferSize: DefaultEventBuffer,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddNote creates a note dated now.
func (s *Service) AddNote(ctx context.Context, content string, important bool) (Note, error) {
	return s.repo.Save(ctx, Note{
		Content:   content,
		Date:      s.now(),
		Important: important,
	})
}

// SaveNote persists n, stamping the current time when n has no date.
func (s *Service) SaveNote(ctx context.Context, n Note) (Note, error) {
	if n.Date.IsZero() {
		n.Date = s.now()
	}
	saved, err := s.repo.Save(ctx, n)
	if err != nil {
		return Note{}, err
	}
	s.logger.Debug("note saved", "id", saved.ID)
	return saved, nil
}

// ListNotes retrieves all notes that match opts, keeping the store order.
func (s *Service) ListNotes(ctx context.Context, opts ListOptions) ([]Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if opts == (ListOptions{}) {
		return notes, nil
	}

	filtered := make([]Note, 0, len(notes))
	for _, n := range notes {
		if opts.Match(n) {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

// Close releases the underlying repository.
func (s *Service) Close(ctx context.Context) error {
	return s.repo.Close(ctx)
}
