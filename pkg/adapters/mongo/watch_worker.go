package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notekeeper/mongonote/pkg/core"
)

// changeEvent is the subset of a change stream document the watcher reads.
type changeEvent struct {
	OperationType string              `bson:"operationType"`
	DocumentKey   bson.M              `bson:"documentKey"`
	FullDocument  bson.M              `bson:"fullDocument"`
	ClusterTime   primitive.Timestamp `bson:"clusterTime"`
}

// toEvent maps a change stream document to a core.Event.
// Operations that do not concern a single note (drop, rename, invalidate) are skipped.
func toEvent(change changeEvent) (core.Event, bool) {
	var eType core.EventType
	switch change.OperationType {
	case "insert":
		eType = core.EventCreate
	case "update", "replace":
		eType = core.EventModify
	case "delete":
		eType = core.EventDelete
	default:
		return core.Event{}, false
	}

	ts := int64(change.ClusterTime.T)
	if ts == 0 {
		ts = time.Now().Unix()
	}

	event := core.Event{
		Type:      eType,
		ID:        coerceID(change.DocumentKey["_id"]),
		Timestamp: ts,
	}
	if change.FullDocument != nil {
		n := decodeNote(change.FullDocument)
		event.Note = &n
	}
	return event, true
}

type watchWorker struct {
	*worker.BaseWorker
	repo   *Repository
	events chan core.Event
	stream *driver.ChangeStream
	cancel context.CancelFunc
}

// newWatchWorker creates a worker that owns events and closes it when it stops.
func newWatchWorker(repo *Repository, events chan core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("mongo-watcher"),
		repo:       repo,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	coll, err := w.repo.collection()
	if err != nil {
		return err
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := coll.Watch(ctx, driver.Pipeline{}, opts)
	if err != nil {
		return fmt.Errorf("failed to open change stream: %w", err)
	}

	w.stream = stream
	w.repo.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// Stop cancels the run context; run treats a cancelled context as a clean stop.
func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// run drains the change stream until the context ends or the stream fails.
func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.repo.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.stream.Close(context.Background())

	for w.stream.Next(ctx) {
		var change changeEvent
		if decodeErr := w.stream.Decode(&change); decodeErr != nil {
			logger.Warn("change skipped", "error", decodeErr)
			continue
		}

		event, ok := toEvent(change)
		if !ok {
			logger.Debug("change skipped", "operation", change.OperationType)
			continue
		}

		select {
		case w.events <- event:
		case <-ctx.Done():
			return nil
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if streamErr := w.stream.Err(); streamErr != nil && !errors.Is(streamErr, context.Canceled) {
		w.handleError(streamErr)
		return streamErr
	}
	return nil
}

// handleError reports the error that ended the stream.
func (w *watchWorker) handleError(err error) {
	w.repo.config.Logger.Error("change stream error", "error", err)
	if w.repo.config.ErrorHandler != nil {
		w.repo.config.ErrorHandler(err)
	}
}

// Watch streams changes to the notes collection until ctx is cancelled.
// The returned channel is closed once the watcher has stopped.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	events := make(chan core.Event, r.config.EventBuffer)
	w := newWatchWorker(r, events)
	if err := w.Start(ctx); err != nil {
		close(events)
		return nil, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return w.Stop(stopCtx)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("watcher stop failed", "error", err)
	}))

	return events, nil
}

var _ core.Watchable = (*Repository)(nil)
