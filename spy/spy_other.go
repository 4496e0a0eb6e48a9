//go:build !windows

package spy

// noopBackend is the degraded backend for platforms without the window
// introspection primitives. Every method returns the defined empty value so
// Capture stays total and yields an all-zero snapshot.
type noopBackend struct{}

func newPlatformBackend() Backend { return noopBackend{} }

func (noopBackend) Available() bool { return false }
func (noopBackend) CursorPos() (int, int, bool) { return 0, 0, false }
func (noopBackend) WindowFromPoint(x, y int) uintptr { return 0 }
func (noopBackend) RootWindow(h uintptr) uintptr { return 0 }
func (noopBackend) ForegroundWindow() uintptr { return 0 }
func (noopBackend) WindowTitle(h uintptr) string { return "" }
func (noopBackend) WindowClass(h uintptr) string { return "" }
func (noopBackend) WindowPID(h uintptr) uint32 { return 0 }
func (noopBackend) ProcessImagePath(pid uint32) string { return "" }
func (noopBackend) ScreenToWindow(h uintptr, sx, sy int) (int, int) { return 0, 0 }
func (noopBackend) ScreenToClient(h uintptr, sx, sy int) (int, int) { return 0, 0 }
func (noopBackend) ControlFromPoint(h uintptr, sx, sy int) ControlInfo {
	return ControlInfo{}
}
func (noopBackend) ModifierHeld() bool { return false }
