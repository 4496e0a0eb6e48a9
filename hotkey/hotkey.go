// Package hotkey registers a fixed set of system-wide key combinations and
// reports presses on a channel. Every combination uses the fixed Ctrl+Shift
// modifier pair plus one configurable trigger key.
package hotkey

import (
	"fmt"
	"sync"
)

// ID identifies one semantic hotkey action, decoupled from the physical key
// bound to it. The numeric values double as the OS-level registration ids.
type ID int

const (
	Click ID = iota + 1
	Drag
	PixelLoop
	ActivateWindow
)

// knownIDs fixes the registration order.
var knownIDs = []ID{Click, Drag, PixelLoop, ActivateWindow}

func (id ID) String() string {
	switch id {
	case Click:
		return "Click"
	case Drag:
		return "Drag"
	case PixelLoop:
		return "PixelLoop"
	case ActivateWindow:
		return "ActivateWindow"
	default:
		return fmt.Sprintf("ID(%d)", int(id))
	}
}

// fromRaw maps an OS-level hotkey id back to the known enumeration.
func fromRaw(raw int) (ID, bool) {
	id := ID(raw)
	for _, k := range knownIDs {
		if id == k {
			return id, true
		}
	}
	return 0, false
}

// backend is the OS-facing half of the listener. The interceptor installed
// by Start only decodes the raw event and calls fire with the numeric id;
// everything else happens downstream of the manager's channel.
type backend interface {
	Supported() bool
	Start(fire func(raw int)) error
	Stop()
	Register(id ID, vk uint16) error
	Unregister(id ID)
}

// Manager owns the registration table and the single event interceptor.
// One manager per session; re-registering a held id replaces the previous
// binding so no duplicate OS registration can leak.
type Manager struct {
	mu      sync.Mutex
	backend backend
	bound   map[ID]uint16
	started bool
	events  chan ID
}

// NewManager builds a manager with the platform backend.
func NewManager() *Manager {
	return newManager(newPlatformBackend())
}

func newManager(b backend) *Manager {
	return &Manager{
		backend: b,
		bound:   make(map[ID]uint16),
		events:  make(chan ID, 8),
	}
}

// Events delivers triggered hotkey ids. Posts are non-blocking: dispatch
// must never stall the OS event pump, so a full channel drops the press.
func (m *Manager) Events() <-chan ID { return m.events }

// RegisterAll registers every binding in the map, collecting one message
// per failed binding instead of aborting. A platform without any global
// hotkey facility yields a single aggregate message.
func (m *Manager) RegisterAll(bindings map[ID]string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.backend.Supported() {
		return []string{"global hotkeys are not available on this platform"}
	}

	if !m.started {
		if err := m.backend.Start(m.dispatchRaw); err != nil {
			return []string{fmt.Sprintf("failed to install hotkey interceptor: %v", err)}
		}
		m.started = true
	}

	var errs []string
	for _, id := range knownIDs {
		trigger, ok := bindings[id]
		if !ok {
			continue
		}
		vk, err := triggerKey(trigger)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid trigger %q for %s: %v", trigger, id, err))
			continue
		}
		if _, held := m.bound[id]; held {
			// Replace policy: drop the old OS registration first.
			m.backend.Unregister(id)
			delete(m.bound, id)
		}
		if err := m.backend.Register(id, vk); err != nil {
			errs = append(errs, fmt.Sprintf("failed to register Ctrl+Shift+%c for %s: %v", vk, id, err))
			continue
		}
		m.bound[id] = vk
	}
	return errs
}

// UnregisterAll drops every held binding and removes the interceptor.
// Safe to call when nothing is registered.
func (m *Manager) UnregisterAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.bound {
		m.backend.Unregister(id)
	}
	m.bound = make(map[ID]uint16)

	if m.started {
		m.backend.Stop()
		m.started = false
	}
}

// Bound returns the currently held trigger key for id, if any.
func (m *Manager) Bound(id ID) (uint16, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vk, ok := m.bound[id]
	return vk, ok
}

func (m *Manager) dispatchRaw(raw int) {
	id, ok := fromRaw(raw)
	if !ok {
		return
	}
	select {
	case m.events <- id:
	default:
	}
}

// triggerKey maps a single letter or digit to its virtual-key code.
func triggerKey(s string) (uint16, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("trigger must be a single letter or digit")
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return uint16(c), nil
	}
	return 0, fmt.Errorf("unsupported trigger key %q", s)
}
