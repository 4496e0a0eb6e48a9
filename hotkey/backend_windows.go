//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	modControl  = 0x0002
	modShift    = 0x0004
	modNoRepeat = 0x4000

	wmHotkey = 0x0312
	pmRemove = 0x0001
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
	procPeekMessageW     = user32.NewProc("PeekMessageW")
)

type msg struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// winBackend registers hotkeys through RegisterHotKey. Registrations are
// thread-affine, so a single locked goroutine owns both registration calls
// and the message pump; Register/Unregister forward over a command channel.
type winBackend struct {
	cmds chan winCmd
	quit chan struct{}
	fire func(int)
}

type winCmd struct {
	unregister bool
	id         ID
	vk         uint16
	reply      chan error
}

func newPlatformBackend() backend { return &winBackend{} }

func (b *winBackend) Supported() bool { return true }

func (b *winBackend) Start(fire func(int)) error {
	b.fire = fire
	b.cmds = make(chan winCmd)
	b.quit = make(chan struct{})
	go b.pump()
	return nil
}

func (b *winBackend) Stop() {
	close(b.quit)
}

func (b *winBackend) Register(id ID, vk uint16) error {
	cmd := winCmd{id: id, vk: vk, reply: make(chan error, 1)}
	select {
	case b.cmds <- cmd:
		return <-cmd.reply
	case <-b.quit:
		return fmt.Errorf("hotkey message pump is not running")
	}
}

func (b *winBackend) Unregister(id ID) {
	cmd := winCmd{unregister: true, id: id, reply: make(chan error, 1)}
	select {
	case b.cmds <- cmd:
		<-cmd.reply
	case <-b.quit:
	}
}

func (b *winBackend) pump() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	held := make(map[ID]bool)
	defer func() {
		for id := range held {
			procUnregisterHotKey.Call(0, uintptr(id))
		}
	}()

	for {
		select {
		case <-b.quit:
			return
		case cmd := <-b.cmds:
			if cmd.unregister {
				procUnregisterHotKey.Call(0, uintptr(cmd.id))
				delete(held, cmd.id)
				cmd.reply <- nil
				continue
			}
			r1, _, callErr := procRegisterHotKey.Call(
				0,
				uintptr(cmd.id),
				modControl|modShift|modNoRepeat,
				uintptr(cmd.vk),
			)
			if r1 == 0 {
				cmd.reply <- fmt.Errorf("RegisterHotKey failed: %v", callErr)
				continue
			}
			held[cmd.id] = true
			cmd.reply <- nil
		default:
			// Drain pending thread messages, then idle briefly. PeekMessage
			// keeps the command channel responsive where GetMessage would
			// block the thread until the next keypress.
			var m msg
			for {
				r1, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
				if r1 == 0 {
					break
				}
				if m.Message == wmHotkey {
					b.fire(int(m.WParam))
				}
			}
			time.Sleep(15 * time.Millisecond)
		}
	}
}
