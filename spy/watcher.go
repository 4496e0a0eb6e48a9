package spy

import (
	"context"
	"sync"
	"time"
)

// Watcher re-captures a snapshot on a fixed cadence and keeps the most
// recent one available. While Ctrl or Shift is held the watcher freezes:
// the last snapshot is retained so a hotkey press sees the state the user
// parked the cursor on, not the state after reaching for the keyboard.
type Watcher struct {
	engine *Engine

	mu         sync.Mutex
	latest     Snapshot
	frozen     bool
	follow     bool
	interval   time.Duration
	lastWindow uintptr

	updates chan Snapshot
}

// NewWatcher builds a watcher around engine ticking at interval.
func NewWatcher(engine *Engine, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Watcher{
		engine:   engine,
		follow:   true,
		interval: interval,
		updates:  make(chan Snapshot, 1),
	}
}

// Updates delivers fresh snapshots. Sends are non-blocking; a slow consumer
// only ever misses intermediate ticks, never the latest state.
func (w *Watcher) Updates() <-chan Snapshot { return w.updates }

// Latest returns the most recent snapshot (frozen or not).
func (w *Watcher) Latest() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// Frozen reports whether the watcher is currently holding its snapshot.
func (w *Watcher) Frozen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frozen
}

// SetFollowMouse switches between tracking the window under the cursor and
// sticking with the last resolved window.
func (w *Watcher) SetFollowMouse(follow bool) {
	w.mu.Lock()
	w.follow = follow
	w.mu.Unlock()
}

// SetInterval changes the capture cadence. Takes effect on the next tick.
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.interval = d
	w.mu.Unlock()
}

// Run ticks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		w.mu.Lock()
		d := w.interval
		w.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			w.tick()
		}
	}
}

func (w *Watcher) tick() {
	if w.engine.ModifierHeld() {
		w.mu.Lock()
		w.frozen = true
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	follow := w.follow
	last := w.lastWindow
	w.mu.Unlock()

	snap := w.engine.Capture(follow, last)

	w.mu.Lock()
	w.frozen = false
	w.latest = snap
	if snap.Window.Handle != 0 {
		w.lastWindow = snap.Window.Handle
	}
	w.mu.Unlock()

	select {
	case w.updates <- snap:
	default:
	}
}
