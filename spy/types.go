package spy

import "fmt"

// WindowInfo identifies one top-level window. Built fresh on every capture
// tick and never mutated afterwards.
type WindowInfo struct {
	Title       string
	ClassName   string
	Handle      uintptr
	PID         uint32
	ExePath     string
	ProcessName string
}

// MouseCoords holds the cursor position in the three coordinate spaces AHK
// scripts can address. All three derive from one cursor read, so they
// describe the same instant.
type MouseCoords struct {
	ScreenX, ScreenY int
	WindowX, WindowY int
	ClientX, ClientY int
}

// ControlInfo identifies the child control directly under the cursor.
// Zero value means no distinguishable control exists.
type ControlInfo struct {
	ClassNN string
	Handle  uintptr
}

// PixelColor is an RGB triple sampled from the screen. The zero value
// (black) doubles as the sampling-failure sentinel.
type PixelColor struct {
	R, G, B uint8
}

// Hex returns the color as "0xRRGGBB".
func (c PixelColor) Hex() string {
	return fmt.Sprintf("0x%02X%02X%02X", c.R, c.G, c.B)
}

// Decimal returns the color as "r, g, b".
func (c PixelColor) Decimal() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// Snapshot aggregates everything sampled in one capture tick. Immutable;
// a new tick produces a new Snapshot rather than mutating the old one.
type Snapshot struct {
	Window  WindowInfo
	Coords  MouseCoords
	Control ControlInfo
	Color   PixelColor
}
