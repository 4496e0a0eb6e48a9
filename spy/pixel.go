package spy

import (
	"image"

	"github.com/kbinani/screenshot"
)

// SamplePixel reads the on-screen color at screen coordinates (x, y) by
// grabbing a 1x1 rectangle. Any failure (no display, unreadable surface)
// yields the black sentinel rather than an error.
func SamplePixel(x, y int) PixelColor {
	defer func() { _ = recover() }()

	if screenshot.NumActiveDisplays() == 0 {
		return PixelColor{}
	}
	img, err := screenshot.CaptureRect(image.Rect(x, y, x+1, y+1))
	if err != nil || img == nil {
		return PixelColor{}
	}
	r, g, b, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	return PixelColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
