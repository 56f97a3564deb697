// Package raster provides the pixel surface the sky engine draws onto, plus
// the background layers and the downsampling used to show it in a terminal.
package raster

import (
	"image"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Canvas is a transparent RGBA drawing surface backed by a gg context.
// A zero-sized canvas accepts draw calls and ignores them.
type Canvas struct {
	dc     *gg.Context
	width  int
	height int
}

// NewCanvas creates a width x height canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize discards the current pixels and reallocates at the new size.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width = width
	c.height = height
	c.dc = nil
	if width > 0 && height > 0 {
		c.dc = gg.NewContext(width, height)
		c.dc.SetLineCapRound()
	}
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() {
	if c.dc == nil {
		return
	}
	c.dc.SetRGBA(0, 0, 0, 0)
	c.dc.Clear()
}

// FillCircle paints a filled circle with the given color and alpha.
func (c *Canvas) FillCircle(x, y, radius float64, col colorful.Color, alpha float64) {
	if c.dc == nil || radius <= 0 || alpha <= 0 {
		return
	}
	c.setColor(col, alpha)
	c.dc.DrawCircle(x, y, radius)
	c.dc.Fill()
}

// StrokeLine paints a line segment.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col colorful.Color, alpha float64) {
	if c.dc == nil || width <= 0 || alpha <= 0 {
		return
	}
	c.setColor(col, alpha)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x0, y0, x1, y1)
	c.dc.Stroke()
}

func (c *Canvas) setColor(col colorful.Color, alpha float64) {
	col = col.Clamped()
	c.dc.SetRGBA(col.R, col.G, col.B, clamp01(alpha))
}

// Image returns the backing pixels, or nil for an empty canvas. The image is
// reused across frames.
func (c *Canvas) Image() *image.RGBA {
	if c.dc == nil {
		return nil
	}
	img, _ := c.dc.Image().(*image.RGBA)
	return img
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
