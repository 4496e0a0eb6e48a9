//go:build windows

package spy

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	u32 = windows.NewLazySystemDLL("user32.dll")
	k32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetCursorPos             = u32.NewProc("GetCursorPos")
	procWindowFromPoint          = u32.NewProc("WindowFromPoint")
	procGetAncestor              = u32.NewProc("GetAncestor")
	procGetForegroundWindow      = u32.NewProc("GetForegroundWindow")
	procGetWindowTextW           = u32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = u32.NewProc("GetWindowTextLengthW")
	procGetClassNameW            = u32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId = u32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect            = u32.NewProc("GetWindowRect")
	procScreenToClient           = u32.NewProc("ScreenToClient")
	procRealChildWindowFromPoint = u32.NewProc("RealChildWindowFromPoint")
	procGetAsyncKeyState         = u32.NewProc("GetAsyncKeyState")

	procOpenProcess                = k32.NewProc("OpenProcess")
	procCloseHandle                = k32.NewProc("CloseHandle")
	procQueryFullProcessImageNameW = k32.NewProc("QueryFullProcessImageNameW")
)

const (
	gaRoot = 2

	processQueryLimitedInformation = 0x1000

	vkShift   = 0x10
	vkControl = 0x11
)

type point struct {
	X, Y int32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

// packPoint packs a POINT for APIs that take it by value.
func packPoint(x, y int) uintptr {
	return uintptr(uint32(int32(x))) | uintptr(uint32(int32(y)))<<32
}

type winBackend struct {
	wmi *wmiExeCache
}

func newPlatformBackend() Backend {
	return &winBackend{wmi: newWMIExeCache()}
}

func (b *winBackend) Available() bool { return true }

func (b *winBackend) CursorPos() (int, int, bool) {
	var pt point
	r1, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if r1 == 0 {
		return 0, 0, false
	}
	return int(pt.X), int(pt.Y), true
}

func (b *winBackend) WindowFromPoint(x, y int) uintptr {
	r1, _, _ := procWindowFromPoint.Call(packPoint(x, y))
	return r1
}

func (b *winBackend) RootWindow(h uintptr) uintptr {
	if h == 0 {
		return 0
	}
	r1, _, _ := procGetAncestor.Call(h, gaRoot)
	if r1 == 0 {
		return h
	}
	return r1
}

func (b *winBackend) ForegroundWindow() uintptr {
	r1, _, _ := procGetForegroundWindow.Call()
	return r1
}

func (b *winBackend) WindowTitle(h uintptr) string {
	if h == 0 {
		return ""
	}
	r1, _, _ := procGetWindowTextLengthW.Call(h)
	n := int(r1)
	if n <= 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	r2, _, _ := procGetWindowTextW.Call(h, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r2 == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:r2])
}

func (b *winBackend) WindowClass(h uintptr) string {
	if h == 0 {
		return ""
	}
	buf := make([]uint16, 256)
	r1, _, _ := procGetClassNameW.Call(h, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r1 == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:r1])
}

func (b *winBackend) WindowPID(h uintptr) uint32 {
	if h == 0 {
		return 0
	}
	var pid uint32
	_, _, _ = procGetWindowThreadProcessId.Call(h, uintptr(unsafe.Pointer(&pid)))
	return pid
}

// ProcessImagePath opens the process with the least query rights, reads its
// executable path, and closes the handle before returning. When the handle
// is denied (elevated or protected processes) it falls back to WMI.
func (b *winBackend) ProcessImagePath(pid uint32) string {
	if pid == 0 {
		return ""
	}
	h, _, _ := procOpenProcess.Call(processQueryLimitedInformation, 0, uintptr(pid))
	if h == 0 {
		return b.wmi.Lookup(pid)
	}
	defer procCloseHandle.Call(h)

	buf := make([]uint16, 1024)
	size := uint32(len(buf))
	r1, _, _ := procQueryFullProcessImageNameW.Call(h, 0, uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if r1 == 0 || size == 0 {
		return b.wmi.Lookup(pid)
	}
	return windows.UTF16ToString(buf[:size])
}

func (b *winBackend) ScreenToWindow(h uintptr, sx, sy int) (int, int) {
	if h == 0 {
		return 0, 0
	}
	var r rect
	r1, _, _ := procGetWindowRect.Call(h, uintptr(unsafe.Pointer(&r)))
	if r1 == 0 {
		return 0, 0
	}
	return sx - int(r.Left), sy - int(r.Top)
}

func (b *winBackend) ScreenToClient(h uintptr, sx, sy int) (int, int) {
	if h == 0 {
		return 0, 0
	}
	pt := point{X: int32(sx), Y: int32(sy)}
	r1, _, _ := procScreenToClient.Call(h, uintptr(unsafe.Pointer(&pt)))
	if r1 == 0 {
		return 0, 0
	}
	return int(pt.X), int(pt.Y)
}

func (b *winBackend) ControlFromPoint(h uintptr, sx, sy int) ControlInfo {
	if h == 0 {
		return ControlInfo{}
	}
	cx, cy := b.ScreenToClient(h, sx, sy)
	child, _, _ := procRealChildWindowFromPoint.Call(h, packPoint(cx, cy))
	if child == 0 || child == h {
		return ControlInfo{}
	}
	return ControlInfo{ClassNN: b.WindowClass(child), Handle: child}
}

func (b *winBackend) ModifierHeld() bool {
	ctrl, _, _ := procGetAsyncKeyState.Call(vkControl)
	shift, _, _ := procGetAsyncKeyState.Call(vkShift)
	return uint16(ctrl)&0x8000 != 0 || uint16(shift)&0x8000 != 0
}
