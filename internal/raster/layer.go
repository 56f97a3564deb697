package raster

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Layer shades a point of the backdrop underneath the star canvas.
// x and y are surface pixel coordinates inside a width x height surface.
type Layer interface {
	Shade(base colorful.Color, x, y, width, height float64) colorful.Color
}

// Stop is a gradient color stop at Pos in [0, 1].
type Stop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient is a vertical linear gradient filling the whole surface.
type Gradient struct {
	stops []Stop
}

// NewGradient creates a gradient from the given stops.
func NewGradient(stops ...Stop) Gradient {
	s := append([]Stop(nil), stops...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Pos < s[j].Pos })
	return Gradient{stops: s}
}

// NightGradient is the default sky: slate at the top, deep indigo through
// the middle, back to dark indigo at the bottom.
func NightGradient() Gradient {
	return NewGradient(
		Stop{0, hex("#0f172a")},
		Stop{0.3, hex("#1e1b4b")},
		Stop{0.7, hex("#312e81")},
		Stop{1, hex("#1e1b4b")},
	)
}

// At returns the gradient color at t in [0, 1].
func (g Gradient) At(t float64) colorful.Color {
	if len(g.stops) == 0 {
		return colorful.Color{}
	}
	if t <= g.stops[0].Pos {
		return g.stops[0].Color
	}
	for i := 1; i < len(g.stops); i++ {
		lo, hi := g.stops[i-1], g.stops[i]
		if t <= hi.Pos {
			span := hi.Pos - lo.Pos
			if span <= 0 {
				return hi.Color
			}
			return lo.Color.BlendRgb(hi.Color, (t-lo.Pos)/span)
		}
	}
	return g.stops[len(g.stops)-1].Color
}

// Shade implements Layer. The gradient is opaque, so base is ignored.
func (g Gradient) Shade(_ colorful.Color, _, y, _, height float64) colorful.Color {
	if height <= 0 {
		return g.At(0)
	}
	return g.At(y / height)
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
