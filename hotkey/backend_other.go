//go:build !windows

package hotkey

import (
	"errors"
	"log"
	"sync"

	gohook "github.com/robotn/gohook"
)

var errNoHook = errors.New("keyboard hook unavailable")

// hookBackend detects hotkey combinations with a keyboard hook instead of a
// native registration API. Ctrl and Shift state is tracked from raw key
// events; a bound trigger key fires while both modifiers are held.
type hookBackend struct {
	mu       sync.Mutex
	bindings map[ID]uint16
	latched  map[ID]bool
	fire     func(int)
}

func newPlatformBackend() backend {
	return &hookBackend{
		bindings: make(map[ID]uint16),
		latched:  make(map[ID]bool),
	}
}

func (b *hookBackend) Supported() bool { return true }

func (b *hookBackend) Start(fire func(int)) error {
	b.fire = fire

	evChan := gohook.Start()
	if evChan == nil {
		log.Printf("ERROR: gohook.Start() returned nil channel")
		return errNoHook
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey hook goroutine: %v", r)
			}
		}()

		var ctrlPressed, shiftPressed bool

		for ev := range evChan {
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
				continue
			}

			down := ev.Kind == gohook.KeyDown
			switch ev.Rawcode {
			case 162, 163: // Left/Right Ctrl
				ctrlPressed = down
			case 160, 161: // Left/Right Shift
				shiftPressed = down
			default:
				b.trigger(ev.Rawcode, down, ctrlPressed && shiftPressed)
			}
		}
		log.Printf("Hotkey event channel closed")
	}()
	return nil
}

func (b *hookBackend) Stop() {
	gohook.End()
}

func (b *hookBackend) Register(id ID, vk uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bindings[id] = vk
	delete(b.latched, id)
	return nil
}

func (b *hookBackend) Unregister(id ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bindings, id)
	delete(b.latched, id)
}

// trigger fires the id bound to rawcode at most once per physical press:
// the id stays latched until its trigger key is released again.
func (b *hookBackend) trigger(rawcode uint16, down, modifiersHeld bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, vk := range b.bindings {
		if vk != rawcode {
			continue
		}
		if !down {
			delete(b.latched, id)
			continue
		}
		if modifiersHeld && !b.latched[id] {
			b.latched[id] = true
			b.fire(int(id))
		}
	}
}
