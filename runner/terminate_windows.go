//go:build windows

package runner

import (
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"
)

const wmClose = 0x0010

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procPostMessageW             = user32.NewProc("PostMessageW")
)

// terminate posts WM_CLOSE to every top-level window owned by the process,
// mirroring what closing it from the taskbar would do. A console script with
// no window gets nothing to close, so the caller's forced-kill escalation
// still applies.
func terminate(cmd *exec.Cmd) error {
	pid := uint32(cmd.Process.Pid)
	posted := false

	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		var windowPid uint32
		procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&windowPid)))
		if windowPid == pid {
			procPostMessageW.Call(hwnd, wmClose, 0, 0)
			posted = true
		}
		return 1 // continue enumeration
	})
	procEnumWindows.Call(cb, 0)

	if !posted {
		return fmt.Errorf("no top-level window found for pid %d", pid)
	}
	return nil
}
