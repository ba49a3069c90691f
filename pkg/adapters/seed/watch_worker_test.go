package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/notekeeper/mongonote/pkg/core"
)

type imported struct {
	path  string
	notes []core.Note
}

func TestWatcher_ImportsMatchingFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	got := make(chan imported, 4)

	w := NewWatcher(NewLoader(nil), filepath.Join(dir, "*.yaml"), func(ctx context.Context, path string, notes []core.Note) error {
		got <- imported{path: path, notes: notes}
		return nil
	})
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		_ = w.Stop(stopCtx)
	}()

	if status := w.State().Status; status != worker.StatusRunning {
		t.Fatalf("expected running watcher, got %s", status)
	}

	writeFile(t, filepath.Join(dir, "ignored.json"), `{"content":"nope"}`)
	writeFile(t, filepath.Join(dir, "fresh.yaml"), "content: fresh\n")

	select {
	case imp := <-got:
		if filepath.Base(imp.path) != "fresh.yaml" {
			t.Fatalf("unexpected file imported: %s", imp.path)
		}
		if len(imp.notes) != 1 || imp.notes[0].Content != "fresh" {
			t.Fatalf("unexpected notes: %+v", imp.notes)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for import")
	}

	// A burst of writes is debounced into one import.
	select {
	case imp := <-got:
		t.Fatalf("unexpected second import: %s", imp.path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ImportsFromWildcardDirectories(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "existing.yaml"), "content: existing\n")
	got := make(chan imported, 4)

	w := NewWatcher(NewLoader(nil), filepath.Join(dir, "*", "*.yaml"), func(ctx context.Context, path string, notes []core.Note) error {
		got <- imported{path: path, notes: notes}
		return nil
	})
	if !w.recursive {
		t.Fatal("expected a pattern with a wildcard directory to watch subdirectories")
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		_ = w.Stop(stopCtx)
	}()

	writeFile(t, filepath.Join(dir, "a", "new.yaml"), "content: nested\n")

	select {
	case imp := <-got:
		if imp.path != filepath.Join(dir, "a", "new.yaml") {
			t.Fatalf("unexpected file imported: %s", imp.path)
		}
		if len(imp.notes) != 1 || imp.notes[0].Content != "nested" {
			t.Fatalf("unexpected notes: %+v", imp.notes)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("file in a matching subdirectory was not imported")
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(NewLoader(nil), filepath.Join(t.TempDir(), "*.md"), func(context.Context, string, []core.Note) error {
		return nil
	})
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	if err := w.Start(ctx); err == nil {
		t.Error("expected second Start to fail")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(NewLoader(nil), filepath.Join(t.TempDir(), "missing", "*.md"), nil)
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}

func TestWatcher_Matches(t *testing.T) {
	w := NewWatcher(NewLoader(nil), "seed/**/*.yaml", nil)

	cases := map[string]bool{
		"seed/a.yaml":     true,
		"seed/x/y/b.yaml": true,
		"seed/a.json":     false,
		"other/a.yaml":    false,
		"./seed/c.yaml":   true,
		"seed/sub/readme": false,
	}
	for path, want := range cases {
		if got := w.matches(path); got != want {
			t.Errorf("matches(%q) = %v, want %v", path, got, want)
		}
	}
	if !w.recursive || w.base != "seed" {
		t.Errorf("unexpected split: base=%q recursive=%v", w.base, w.recursive)
	}

	splits := map[string]bool{
		"seed/*.yaml":      false,
		"seed/notes.md":    false,
		"seed/*/*.yaml":    true,
		"seed/**":          true,
		"seed/{a,b}/*.yml": true,
	}
	for pattern, want := range splits {
		if got := NewWatcher(NewLoader(nil), pattern, nil).recursive; got != want {
			t.Errorf("recursive(%q) = %v, want %v", pattern, got, want)
		}
	}
}
