package seed

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.add("a.yaml", func() { calls.Add(1) })
	}
	d.add("b.yaml", func() { calls.Add(10) })

	time.Sleep(100 * time.Millisecond)
	d.stopAndWait(time.Second)

	if got := calls.Load(); got != 11 {
		t.Errorf("expected one call per key (11), got %d", got)
	}
}

func TestDebouncer_StopRejectsNewCalls(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	d.stopAndWait(time.Second)

	called := false
	d.add("a", func() { called = true })
	time.Sleep(20 * time.Millisecond)

	if called {
		t.Error("callback ran after stop")
	}
}

func TestDebouncer_WaitsForPending(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)

	var done atomic.Bool
	d.add("a", func() {
		time.Sleep(20 * time.Millisecond)
		done.Store(true)
	})
	d.stopAndWait(time.Second)

	if !done.Load() {
		t.Error("stopAndWait returned before the pending call finished")
	}
}
