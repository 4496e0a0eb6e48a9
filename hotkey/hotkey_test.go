package hotkey

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records registration traffic and lets tests inject raw events.
type fakeBackend struct {
	supported   bool
	startErr    error
	failVK      map[uint16]error
	started     int
	stopped     int
	registered  map[ID]uint16
	unregisters []ID
	fire        func(int)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		supported:  true,
		failVK:     make(map[uint16]error),
		registered: make(map[ID]uint16),
	}
}

func (f *fakeBackend) Supported() bool { return f.supported }

func (f *fakeBackend) Start(fire func(int)) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	f.fire = fire
	return nil
}

func (f *fakeBackend) Stop() { f.stopped++ }

func (f *fakeBackend) Register(id ID, vk uint16) error {
	if err, ok := f.failVK[vk]; ok {
		return err
	}
	f.registered[id] = vk
	return nil
}

func (f *fakeBackend) Unregister(id ID) {
	f.unregisters = append(f.unregisters, id)
	delete(f.registered, id)
}

func defaultBindings() map[ID]string {
	return map[ID]string{
		Click:          "K",
		Drag:           "D",
		PixelLoop:      "L",
		ActivateWindow: "A",
	}
}

func TestRegisterAllBindsEveryAction(t *testing.T) {
	fb := newFakeBackend()
	m := newManager(fb)

	errs := m.RegisterAll(defaultBindings())
	require.Empty(t, errs)

	assert.Equal(t, 1, fb.started)
	assert.Equal(t, uint16('K'), fb.registered[Click])
	assert.Equal(t, uint16('D'), fb.registered[Drag])
	assert.Equal(t, uint16('L'), fb.registered[PixelLoop])
	assert.Equal(t, uint16('A'), fb.registered[ActivateWindow])
}

func TestRegisterAllCollectsPerBindingErrors(t *testing.T) {
	fb := newFakeBackend()
	fb.failVK['D'] = fmt.Errorf("already in use")
	m := newManager(fb)

	bindings := defaultBindings()
	bindings[PixelLoop] = "??" // not a single letter or digit

	errs := m.RegisterAll(bindings)
	require.Len(t, errs, 2)

	// The other two bindings still went through.
	assert.Contains(t, fb.registered, Click)
	assert.Contains(t, fb.registered, ActivateWindow)
	assert.NotContains(t, fb.registered, Drag)
	assert.NotContains(t, fb.registered, PixelLoop)
}

func TestRegisterAllReplacesHeldBinding(t *testing.T) {
	fb := newFakeBackend()
	m := newManager(fb)

	require.Empty(t, m.RegisterAll(defaultBindings()))

	rebound := defaultBindings()
	rebound[Click] = "J"
	require.Empty(t, m.RegisterAll(rebound))

	// The old Click registration was dropped before the new one landed.
	assert.Contains(t, fb.unregisters, Click)
	assert.Equal(t, uint16('J'), fb.registered[Click])
	// Interceptor installed exactly once across both calls.
	assert.Equal(t, 1, fb.started)
}

func TestRegisterAllUnsupportedPlatform(t *testing.T) {
	fb := newFakeBackend()
	fb.supported = false
	m := newManager(fb)

	errs := m.RegisterAll(defaultBindings())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "not available")
	assert.Equal(t, 0, fb.started)
}

func TestUnregisterAllIsIdempotent(t *testing.T) {
	fb := newFakeBackend()
	m := newManager(fb)

	require.Empty(t, m.RegisterAll(defaultBindings()))
	m.UnregisterAll()
	m.UnregisterAll() // no-op when nothing is held

	assert.Empty(t, fb.registered)
	assert.Equal(t, 1, fb.stopped)

	_, held := m.Bound(Click)
	assert.False(t, held)
}

func TestEventsDeliverKnownIDsOnly(t *testing.T) {
	fb := newFakeBackend()
	m := newManager(fb)
	require.Empty(t, m.RegisterAll(defaultBindings()))

	fb.fire(int(Drag))
	fb.fire(99) // stale OS id from a previous session, dropped
	fb.fire(int(ActivateWindow))

	select {
	case id := <-m.Events():
		assert.Equal(t, Drag, id)
	case <-time.After(time.Second):
		t.Fatal("expected a hotkey event")
	}
	select {
	case id := <-m.Events():
		assert.Equal(t, ActivateWindow, id)
	case <-time.After(time.Second):
		t.Fatal("expected a second hotkey event")
	}
}

func TestEventsDropWhenChannelFull(t *testing.T) {
	fb := newFakeBackend()
	m := newManager(fb)
	require.Empty(t, m.RegisterAll(defaultBindings()))

	// Overrun the buffer without a consumer; fire must never block.
	for i := 0; i < 50; i++ {
		fb.fire(int(Click))
	}
	assert.Len(t, m.Events(), cap(m.events))
}

func TestTriggerKeyNormalizesCase(t *testing.T) {
	vk, err := triggerKey("k")
	require.NoError(t, err)
	assert.Equal(t, uint16('K'), vk)

	vk, err = triggerKey("7")
	require.NoError(t, err)
	assert.Equal(t, uint16('7'), vk)

	_, err = triggerKey("")
	assert.Error(t, err)
	_, err = triggerKey("F1")
	assert.Error(t, err)
	_, err = triggerKey("-")
	assert.Error(t, err)
}
