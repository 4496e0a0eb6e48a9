// Package dispatch is the single-threaded coordinator between the hotkey
// listener, the snapshot watcher, the code generator, and the script runner.
// All orchestration happens on one loop goroutine; everything else posts
// into it over channels.
package dispatch

import (
	"context"
	"log"
	"time"

	"ahk-workbench/clipboard"
	"ahk-workbench/codegen"
	"ahk-workbench/config"
	"ahk-workbench/hotkey"
	"ahk-workbench/project"
	"ahk-workbench/runner"
	"ahk-workbench/spy"
)

// SnapshotSource hands out the most recent capture.
type SnapshotSource interface {
	Latest() spy.Snapshot
}

// HotkeyRegistrar is the listener surface the loop drives.
type HotkeyRegistrar interface {
	RegisterAll(map[hotkey.ID]string) []string
	UnregisterAll()
	Events() <-chan hotkey.ID
}

// ScriptRunner is the runner surface the loop drives.
type ScriptRunner interface {
	Run(runner.Request) bool
	Stop(time.Duration)
	State() runner.State
	Events() <-chan runner.Event
}

// RunCommand is a "run requested" input from the editing surface: either
// the on-disk script or the unsaved buffer contents.
type RunCommand struct {
	ScriptPath  string
	UnsavedText string
	FromBuffer  bool
}

// Options wires the loop's collaborators.
type Options struct {
	Snapshots SnapshotSource
	Hotkeys   HotkeyRegistrar
	Runner    ScriptRunner
	Config    *config.Config
	Project   *project.Project

	// CopyToClipboard also places every generated fragment on the system
	// clipboard, best-effort.
	CopyToClipboard bool

	// OnRunnerEvent observes runner events from the loop goroutine.
	OnRunnerEvent func(runner.Event)
	// OnWarning receives human-readable capability and registration
	// problems worth showing the user.
	OnWarning func(string)
}

// Loop owns the dispatch state. Construct with New, drive with Run.
type Loop struct {
	opts Options
	cfg  *config.Config

	runCh      chan RunCommand
	stopCh     chan struct{}
	settingsCh chan *config.Config
	focusCh    chan bool

	inserts chan string
	pending []string
	focused bool

	dragStart *spy.Snapshot
}

func New(opts Options) *Loop {
	return &Loop{
		opts:       opts,
		cfg:        opts.Config,
		runCh:      make(chan RunCommand, 4),
		stopCh:     make(chan struct{}, 1),
		settingsCh: make(chan *config.Config, 1),
		focusCh:    make(chan bool, 4),
		inserts:    make(chan string, 32),
	}
}

// Inserts delivers generated script fragments for the editing surface,
// in generation order. Fragments produced while the surface is unfocused
// are queued and flushed on the next focus-gained event.
func (l *Loop) Inserts() <-chan string { return l.inserts }

// RequestRun posts a run request. Non-blocking; an overloaded loop drops
// the request rather than stalling the caller.
func (l *Loop) RequestRun(cmd RunCommand) {
	select {
	case l.runCh <- cmd:
	default:
	}
}

// RequestStop posts a stop request for the active process.
func (l *Loop) RequestStop() {
	select {
	case l.stopCh <- struct{}{}:
	default:
	}
}

// UpdateSettings swaps the configuration in, re-registering every hotkey
// under the new bindings.
func (l *Loop) UpdateSettings(cfg *config.Config) {
	select {
	case l.settingsCh <- cfg:
	default:
	}
}

// SetEditorFocused reports focus changes of the editing surface.
func (l *Loop) SetEditorFocused(focused bool) {
	select {
	case l.focusCh <- focused:
	default:
	}
}

// Run registers the hotkeys and processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for _, msg := range l.opts.Hotkeys.RegisterAll(bindings(l.cfg)) {
		l.warn(msg)
	}
	defer l.opts.Hotkeys.UnregisterAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id := <-l.opts.Hotkeys.Events():
			l.handleHotkey(id)
		case cmd := <-l.runCh:
			l.handleRun(cmd)
		case <-l.stopCh:
			l.opts.Runner.Stop(time.Duration(l.cfg.GracefulKillTimeoutMs) * time.Millisecond)
		case cfg := <-l.settingsCh:
			l.applySettings(cfg)
		case focused := <-l.focusCh:
			l.focused = focused
			if focused {
				l.flushPending()
			}
		case ev := <-l.opts.Runner.Events():
			if l.opts.OnRunnerEvent != nil {
				l.opts.OnRunnerEvent(ev)
			}
		}
	}
}

func (l *Loop) warn(msg string) {
	log.Printf("WARNING: %s", msg)
	if l.opts.OnWarning != nil {
		l.opts.OnWarning(msg)
	}
}

func bindings(cfg *config.Config) map[hotkey.ID]string {
	return map[hotkey.ID]string{
		hotkey.Click:          cfg.HotkeyClick,
		hotkey.Drag:           cfg.HotkeyDrag,
		hotkey.PixelLoop:      cfg.HotkeyPixelLoop,
		hotkey.ActivateWindow: cfg.HotkeyActivateWindow,
	}
}

// coords picks the coordinate pair matching the generation mode.
func coords(snap spy.Snapshot, mode codegen.CoordMode) (int, int) {
	switch mode {
	case codegen.Screen:
		return snap.Coords.ScreenX, snap.Coords.ScreenY
	case codegen.Client:
		return snap.Coords.ClientX, snap.Coords.ClientY
	default:
		return snap.Coords.WindowX, snap.Coords.WindowY
	}
}

func (l *Loop) handleHotkey(id hotkey.ID) {
	snap := l.opts.Snapshots.Latest()
	mode := codegen.CoordMode(l.cfg.DefaultCoordMode)
	x, y := coords(snap, mode)

	var text string
	switch id {
	case hotkey.Click:
		text = codegen.Click(x, y, "Left", 1, mode)
	case hotkey.Drag:
		if l.dragStart == nil {
			// First press anchors the drag; the second one emits.
			l.dragStart = &snap
			log.Printf("Drag anchored at %d, %d", x, y)
			return
		}
		x1, y1 := coords(*l.dragStart, mode)
		text = codegen.Drag(x1, y1, x, y, "Left", mode)
		l.dragStart = nil
	case hotkey.PixelLoop:
		text = codegen.PixelLoop(x, y, snap.Color.Hex(), mode, l.cfg.ColorVariation, false)
	case hotkey.ActivateWindow:
		text = codegen.WinActivate(snap.Window.Handle, snap.Window.Title, snap.Window.ClassName, snap.Window.ProcessName)
	default:
		return
	}

	l.insert(text)
	if l.opts.CopyToClipboard {
		if err := clipboard.Write(text); err != nil {
			log.Printf("Clipboard write failed: %v", err)
		}
	}
}

func (l *Loop) insert(text string) {
	if !l.focused {
		l.pending = append(l.pending, text)
		return
	}
	select {
	case l.inserts <- text:
	default:
		l.pending = append(l.pending, text)
	}
}

func (l *Loop) flushPending() {
	for len(l.pending) > 0 {
		select {
		case l.inserts <- l.pending[0]:
			l.pending = l.pending[1:]
		default:
			return
		}
	}
}

func (l *Loop) handleRun(cmd RunCommand) {
	if l.opts.Runner.State() == runner.Running {
		l.warn("A script is already running")
		return
	}
	if l.cfg.AHKExePath == "" {
		l.warn("No AutoHotkey interpreter configured")
		return
	}

	scriptPath := cmd.ScriptPath
	if scriptPath == "" && !cmd.FromBuffer && l.opts.Project != nil {
		scriptPath = l.opts.Project.ActiveTargetAbs()
	}
	if scriptPath == "" && !cmd.FromBuffer {
		l.warn("No script selected to run")
		return
	}

	workDir := ""
	if l.cfg.WorkingDirMode == config.WorkingDirProject && l.opts.Project != nil {
		workDir = l.opts.Project.Root()
	}

	l.opts.Runner.Run(runner.Request{
		InterpreterPath: l.cfg.AHKExePath,
		ScriptPath:      scriptPath,
		UnsavedText:     cmd.UnsavedText,
		FromBuffer:      cmd.FromBuffer,
		Flags:           l.cfg.AHKFlags,
		Args:            l.cfg.AHKArgs,
		WorkingDir:      workDir,
	})
}

func (l *Loop) applySettings(cfg *config.Config) {
	l.opts.Hotkeys.UnregisterAll()
	l.cfg = cfg
	for _, msg := range l.opts.Hotkeys.RegisterAll(bindings(cfg)) {
		l.warn(msg)
	}
	log.Printf("Settings applied, hotkeys re-registered")
}
