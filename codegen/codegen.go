// Package codegen renders AutoHotkey v2 statements from captured window and
// cursor state. Every function is pure text assembly: no OS access, no state
// carried between calls, and a coordinate-mode header is re-emitted on every
// call that needs one.
package codegen

import (
	"fmt"
	"strings"
)

// CoordMode selects the coordinate space generated statements operate in.
type CoordMode string

const (
	Screen CoordMode = "Screen"
	Window CoordMode = "Window"
	Client CoordMode = "Client"
)

// WinActivate produces an activation statement targeting the window by its
// native handle in hex form. Non-empty title/class/process values are joined
// into a trailing comment so the generated line stays readable later.
func WinActivate(handle uintptr, title, className, process string) string {
	var parts []string
	if title != "" {
		parts = append(parts, "Title: "+title)
	}
	if className != "" {
		parts = append(parts, "Class: "+className)
	}
	if process != "" {
		parts = append(parts, "Process: "+process)
	}
	comment := ""
	if len(parts) > 0 {
		comment = "  ; " + strings.Join(parts, ", ")
	}
	return fmt.Sprintf("WinActivate \"ahk_id 0x%x\"%s", uint64(handle), comment)
}

// Click produces a CoordMode header plus one Click statement.
//
// AHK v2 Click syntax:
//
//	Click x, y                          ; single left
//	Click x, y, "Right"                 ; right click
//	Click x, y,, 2                      ; double left
//	Click x, y, "Right", 2              ; double right
func Click(x, y int, button string, count int, mode CoordMode) string {
	header := fmt.Sprintf("CoordMode \"Mouse\", %q\n", mode)
	switch {
	case button == "Left" && count == 1:
		return fmt.Sprintf("%sClick %d, %d", header, x, y)
	case button == "Left":
		return fmt.Sprintf("%sClick %d, %d,, %d", header, x, y, count)
	case count == 1:
		return fmt.Sprintf("%sClick %d, %d, %q", header, x, y, button)
	default:
		return fmt.Sprintf("%sClick %d, %d, %q, %d", header, x, y, button, count)
	}
}

// Drag produces a CoordMode header plus one MouseClickDrag statement from
// (x1,y1) to (x2,y2).
func Drag(x1, y1, x2, y2 int, button string, mode CoordMode) string {
	header := fmt.Sprintf("CoordMode \"Mouse\", %q\n", mode)
	return fmt.Sprintf("%sMouseClickDrag %q, %d, %d, %d, %d", header, button, x1, y1, x2, y2)
}

// PixelLoop produces a CoordMode header plus a polling loop that waits for
// the pixel at (x, y) to match targetColor, a hex string like "0xFF8800".
// The default variant re-samples with PixelGetColor and compares for exact
// equality; usePixelSearch swaps in a one-pixel PixelSearch with the given
// tolerance. Neither variant caps iterations: the generated script is
// expected to be stopped from outside when the color never appears.
func PixelLoop(x, y int, targetColor string, mode CoordMode, variation int, usePixelSearch bool) string {
	header := fmt.Sprintf("CoordMode \"Pixel\", %q\n", mode)

	if usePixelSearch {
		return header +
			"Loop {\n" +
			fmt.Sprintf("    if PixelSearch(&FoundX, &FoundY, %d, %d, %d, %d, %q, %d)\n", x, y, x, y, targetColor, variation) +
			"        break\n" +
			"    Sleep 100\n" +
			"}"
	}

	return header +
		"Loop {\n" +
		fmt.Sprintf("    CurrentColor := PixelGetColor(%d, %d)\n", x, y) +
		fmt.Sprintf("    if (CurrentColor = %q)\n", targetColor) +
		"        break\n" +
		"    Sleep 100\n" +
		"}"
}
