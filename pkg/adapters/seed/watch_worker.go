package seed

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/notekeeper/mongonote/pkg/core"
)

// Handler receives the notes parsed from a seed file that was created or written.
type Handler func(ctx context.Context, path string, notes []core.Note) error

// Watcher re-imports seed files matching a pattern whenever they change on disk.
type Watcher struct {
	*worker.BaseWorker
	loader    *Loader
	pattern   string
	base      string
	recursive bool
	handle    Handler
	logger    *slog.Logger
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc

	// ErrorHandler, when set, receives load and handler failures in addition to the log.
	ErrorHandler func(error)
}

// NewWatcher creates a watcher for pattern. Nothing is watched until Start.
func NewWatcher(loader *Loader, pattern string, handle Handler) *Watcher {
	pattern = filepath.Clean(pattern)
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("seed-watcher"),
		loader:     loader,
		pattern:    pattern,
		base:       filepath.FromSlash(base),
		recursive:  strings.Contains(rest, "/") || strings.Contains(rest, "**"),
		handle:     handle,
		logger:     loader.logger,
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.addDirs(watcher, w.base); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(100 * time.Millisecond)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"pattern":           w.pattern,
		}
	})
}

// addDirs watches root, and every directory below it when the pattern spans
// more than one directory level.
func (w *Watcher) addDirs(watcher *fsnotify.Watcher, root string) error {
	if !w.recursive {
		if err := watcher.Add(root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// matches reports whether a filesystem path is a seed file covered by the pattern.
func (w *Watcher) matches(path string) bool {
	if !w.loader.Supports(path) {
		return false
	}
	ok, err := doublestar.PathMatch(w.pattern, filepath.Clean(path))
	return err == nil && ok
}

func (w *Watcher) processEvent(ctx context.Context, event fsnotify.Event) {
	w.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if w.recursive && event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirs(w.watcher, event.Name); err != nil {
				w.handleError(err)
			}
			return
		}
	}

	if !w.matches(event.Name) {
		return
	}

	path := event.Name
	w.debouncer.add(path, func() {
		if ctx.Err() != nil {
			return
		}
		notes, err := w.loader.LoadFile(path)
		if err != nil {
			w.handleError(err)
			return
		}
		if err := w.handle(ctx, path, notes); err != nil {
			w.handleError(fmt.Errorf("%s: %w", path, err))
		}
	})
}

func (w *Watcher) handleError(err error) {
	w.logger.Error("seed watcher error", "error", err)
	if w.ErrorHandler != nil {
		w.ErrorHandler(err)
	}
}

func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Let in-flight imports finish before the caller closes the store.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

func (w *Watcher) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleError(wErr)
		}
	}
}
