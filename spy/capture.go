package spy

import "path/filepath"

// Backend is the OS-facing half of snapshot capture. Exactly one backend is
// chosen when the Engine is built: the real one on Windows, a no-op one
// everywhere else so Capture stays total.
type Backend interface {
	// Available reports whether window introspection works at all on this
	// platform. When false every other method returns its zero value.
	Available() bool

	// CursorPos returns the cursor position in screen coordinates. ok is
	// false when the position cannot be read.
	CursorPos() (x, y int, ok bool)

	WindowFromPoint(x, y int) uintptr
	RootWindow(h uintptr) uintptr
	ForegroundWindow() uintptr

	WindowTitle(h uintptr) string
	WindowClass(h uintptr) string
	WindowPID(h uintptr) uint32
	ProcessImagePath(pid uint32) string

	ScreenToWindow(h uintptr, sx, sy int) (int, int)
	ScreenToClient(h uintptr, sx, sy int) (int, int)
	ControlFromPoint(h uintptr, sx, sy int) ControlInfo

	// ModifierHeld reports whether Ctrl or Shift is currently pressed.
	// The watcher uses it to freeze the live snapshot.
	ModifierHeld() bool
}

// Engine captures snapshots through a fixed backend.
type Engine struct {
	backend Backend
}

// NewEngine builds an engine with the platform backend.
func NewEngine() *Engine {
	return &Engine{backend: newPlatformBackend()}
}

// NewEngineWithBackend builds an engine around an explicit backend.
func NewEngineWithBackend(b Backend) *Engine {
	return &Engine{backend: b}
}

// Available reports whether real window introspection is possible.
func (e *Engine) Available() bool { return e.backend.Available() }

// ModifierHeld reports whether Ctrl or Shift is held.
func (e *Engine) ModifierHeld() bool { return e.backend.ModifierHeld() }

// Capture samples the full window/cursor/control/pixel state. It never
// fails: every OS-call failure degrades to the empty or zero field.
//
// With followMouse the target is the top-level ancestor of the window under
// the cursor; otherwise lastWindow is reused when non-zero, falling back to
// the foreground window.
func (e *Engine) Capture(followMouse bool, lastWindow uintptr) Snapshot {
	sx, sy, ok := e.backend.CursorPos()
	if !ok {
		return Snapshot{}
	}

	var root uintptr
	if followMouse {
		root = e.backend.RootWindow(e.backend.WindowFromPoint(sx, sy))
	} else if lastWindow != 0 {
		root = lastWindow
	} else {
		root = e.backend.ForegroundWindow()
	}

	pid := e.backend.WindowPID(root)
	exe := e.backend.ProcessImagePath(pid)

	win := WindowInfo{
		Title:       e.backend.WindowTitle(root),
		ClassName:   e.backend.WindowClass(root),
		Handle:      root,
		PID:         pid,
		ExePath:     exe,
		ProcessName: processName(exe),
	}

	wx, wy := e.backend.ScreenToWindow(root, sx, sy)
	cx, cy := e.backend.ScreenToClient(root, sx, sy)

	return Snapshot{
		Window: win,
		Coords: MouseCoords{
			ScreenX: sx, ScreenY: sy,
			WindowX: wx, WindowY: wy,
			ClientX: cx, ClientY: cy,
		},
		Control: e.backend.ControlFromPoint(root, sx, sy),
		Color:   SamplePixel(sx, sy),
	}
}

func processName(exePath string) string {
	if exePath == "" {
		return ""
	}
	return filepath.Base(exePath)
}
