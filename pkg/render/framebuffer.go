// Package render implements the orbitview software pipeline: an orbit camera,
// a color+depth framebuffer and a barycentric triangle rasterizer.
package render

import (
	"image"
	"math"
)

// Framebuffer holds a color grid and a parallel depth grid.
// Both are row-major with index y*Width+x and always hold Width*Height entries.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
	Depth  []float64

	background Color
}

// NewFramebuffer creates a framebuffer cleared to black with infinite depth.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.Clear(ColorBlack)
	return fb
}

// Clear sets every pixel to c and every depth to +Inf.
func (fb *Framebuffer) Clear(c Color) {
	fb.background = c
	n := len(fb.Pixels)
	if n == 0 {
		return
	}

	// Copy-doubling fill
	fb.Pixels[0] = c
	fb.Depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// Background returns the color of the last Clear.
func (fb *Framebuffer) Background() Color {
	return fb.background
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel writes c at (x, y) without touching depth.
// Out-of-range coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// SetPixelWithDepth writes c and z at (x, y) only if z is strictly nearer
// than the stored depth. Ties keep the earlier fragment.
// It reports whether the write happened.
func (fb *Framebuffer) SetPixelWithDepth(x, y int, z float64, c Color) bool {
	if !fb.inBounds(x, y) {
		return false
	}
	i := y*fb.Width + x
	if !(z < fb.Depth[i]) {
		return false
	}
	fb.Depth[i] = z
	fb.Pixels[i] = c
	return true
}

// GetPixel returns the color at (x, y); ok is false out of range.
func (fb *Framebuffer) GetPixel(x, y int) (c Color, ok bool) {
	if !fb.inBounds(x, y) {
		return Color{}, false
	}
	return fb.Pixels[y*fb.Width+x], true
}

// DepthAt returns the stored depth at (x, y); ok is false out of range.
func (fb *Framebuffer) DepthAt(x, y int) (z float64, ok bool) {
	if !fb.inBounds(x, y) {
		return 0, false
	}
	return fb.Depth[y*fb.Width+x], true
}

// DrawLine draws a line from (x0, y0) to (x1, y1) with Bresenham's algorithm.
// Only color is written; depth is ignored. The same pixels are produced
// whichever endpoint comes first.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	ystep := 1
	if y0 > y1 {
		ystep = -1
	}

	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			fb.SetPixel(y, x, c)
		} else {
			fb.SetPixel(x, y, c)
		}
		err -= dy
		if err < 0 {
			y += ystep
			err += dx
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage copies the color grid into a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}
