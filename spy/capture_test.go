package spy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBackend is a scriptable backend for capture tests.
type fakeBackend struct {
	available bool
	cursorX   int
	cursorY   int
	cursorOK  bool

	underCursor uintptr
	root        uintptr
	foreground  uintptr

	titles  map[uintptr]string
	classes map[uintptr]string
	pids    map[uintptr]uint32
	exe     map[uint32]string

	winOffX, winOffY       int
	clientOffX, clientOffY int
	control                ControlInfo

	modifierHeld bool
}

func (f *fakeBackend) Available() bool             { return f.available }
func (f *fakeBackend) CursorPos() (int, int, bool) { return f.cursorX, f.cursorY, f.cursorOK }
func (f *fakeBackend) WindowFromPoint(x, y int) uintptr { return f.underCursor }
func (f *fakeBackend) RootWindow(h uintptr) uintptr {
	if f.root != 0 {
		return f.root
	}
	return h
}
func (f *fakeBackend) ForegroundWindow() uintptr     { return f.foreground }
func (f *fakeBackend) WindowTitle(h uintptr) string  { return f.titles[h] }
func (f *fakeBackend) WindowClass(h uintptr) string  { return f.classes[h] }
func (f *fakeBackend) WindowPID(h uintptr) uint32    { return f.pids[h] }
func (f *fakeBackend) ProcessImagePath(pid uint32) string { return f.exe[pid] }
func (f *fakeBackend) ScreenToWindow(h uintptr, sx, sy int) (int, int) {
	return sx - f.winOffX, sy - f.winOffY
}
func (f *fakeBackend) ScreenToClient(h uintptr, sx, sy int) (int, int) {
	return sx - f.clientOffX, sy - f.clientOffY
}
func (f *fakeBackend) ControlFromPoint(h uintptr, sx, sy int) ControlInfo { return f.control }
func (f *fakeBackend) ModifierHeld() bool                                 { return f.modifierHeld }

func TestCaptureDegradesToZeroSnapshot(t *testing.T) {
	e := NewEngineWithBackend(&fakeBackend{available: false, cursorOK: false})

	snap := e.Capture(true, 0)

	assert.Equal(t, uintptr(0), snap.Window.Handle)
	assert.Equal(t, "", snap.Window.Title)
	assert.Equal(t, "0x000000", snap.Color.Hex())
	assert.Equal(t, "0, 0, 0", snap.Color.Decimal())
}

func TestCaptureFollowMouseResolvesRootWindow(t *testing.T) {
	fb := &fakeBackend{
		available:   true,
		cursorX:     300, cursorY: 400, cursorOK: true,
		underCursor: 0x50,
		root:        0x42,
		titles:      map[uintptr]string{0x42: "Notepad"},
		classes:     map[uintptr]string{0x42: "Notepad"},
		pids:        map[uintptr]uint32{0x42: 1234},
		exe:         map[uint32]string{1234: `C:\Windows\notepad.exe`},
		winOffX:     100, winOffY: 150,
		clientOffX:  110, clientOffY: 180,
		control:     ControlInfo{ClassNN: "Edit1", Handle: 0x51},
	}
	e := NewEngineWithBackend(fb)

	snap := e.Capture(true, 0)

	assert.Equal(t, uintptr(0x42), snap.Window.Handle)
	assert.Equal(t, "Notepad", snap.Window.Title)
	assert.Equal(t, uint32(1234), snap.Window.PID)
	assert.Equal(t, "notepad.exe", snap.Window.ProcessName)

	assert.Equal(t, 300, snap.Coords.ScreenX)
	assert.Equal(t, 400, snap.Coords.ScreenY)
	assert.Equal(t, 200, snap.Coords.WindowX)
	assert.Equal(t, 250, snap.Coords.WindowY)
	assert.Equal(t, 190, snap.Coords.ClientX)
	assert.Equal(t, 220, snap.Coords.ClientY)

	assert.Equal(t, "Edit1", snap.Control.ClassNN)
}

func TestCaptureWithoutFollowPrefersLastWindow(t *testing.T) {
	fb := &fakeBackend{
		available: true,
		cursorX:   10, cursorY: 20, cursorOK: true,
		foreground: 0x99,
		titles:     map[uintptr]string{0x77: "held", 0x99: "front"},
	}
	e := NewEngineWithBackend(fb)

	snap := e.Capture(false, 0x77)
	assert.Equal(t, uintptr(0x77), snap.Window.Handle)
	assert.Equal(t, "held", snap.Window.Title)

	// Zero last window falls back to the foreground window.
	snap = e.Capture(false, 0)
	assert.Equal(t, uintptr(0x99), snap.Window.Handle)
	assert.Equal(t, "front", snap.Window.Title)
}

func TestPixelColorStrings(t *testing.T) {
	c := PixelColor{R: 0xFF, G: 0x88, B: 0x00}
	assert.Equal(t, "0xFF8800", c.Hex())
	assert.Equal(t, "255, 136, 0", c.Decimal())

	assert.Equal(t, "0x000000", PixelColor{}.Hex())
}
